package images

var gradients = [...]string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"linear-gradient(135deg, #43e97b 0%, #38f9d7 100%)",
	"linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
	"linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
	"linear-gradient(135deg, #ffecd2 0%, #fcb69f 100%)",
}

// Gradients returns the placeholder palette in selection order.
func Gradients() []string {
	out := make([]string, len(gradients))
	copy(out, gradients[:])
	return out
}

// Placeholder picks the gradient for an entity id. Negative ids wrap around.
func Placeholder(id int) string {
	n := len(gradients)
	return gradients[((id%n)+n)%n]
}
