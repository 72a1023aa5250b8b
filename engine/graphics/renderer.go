package graphics

// Renderer is what a Shape draws itself into. Matrix and style calls are
// stack based and must be balanced by the caller.
type Renderer interface {
	DrawMesh(mesh *Mesh)
	DrawPolyline(polyline *Polyline)
	PushMatrix()
	PopMatrix()
	Translate(x, y, z float32)
	PushStyle()
	PopStyle()
	SetColor(c Color)
	SetLineWidth(width float32)
}
