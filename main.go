/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-vector/engine"
	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML application config")
	flag.Parse()

	config := engine.DefaultConfig()
	if *configPath != "" {
		c, err := engine.LoadConfig(*configPath)
		if err != nil {
			core.LogFatal("%s", err)
		}
		config = c
	}

	tb := testbed.NewTestGame(config)

	e, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}
	tb.Engine = e

	if err := e.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the loop on a signal, shutdown happens on the main thread
	go func() {
		<-sigCh
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}()

	// run engine
	if err := e.Run(); err != nil {
		panic(err)
	}
	if err := e.Shutdown(); err != nil {
		panic(err)
	}
}
