package reference

type IDGenerator interface {
	NewID() string
}
