package provider

// MockupCompositor renders artwork onto a garment preview
type MockupCompositor interface {
	// Compose places the artwork into the print area of a garment and returns PNG bytes
	Compose(artwork []byte, garmentColor string) ([]byte, error)
}
