package guestcriteria

// Resolver tries to establish one fact from the sources
type Resolver[T any] struct {
	Name    string
	Resolve func(src *Sources) (T, bool)
}

// FirstOf runs resolvers in priority order and returns the first value found,
// together with the name of the resolver that produced it
func FirstOf[T any](src *Sources, resolvers ...Resolver[T]) (T, string, bool) {
	for _, r := range resolvers {
		if value, ok := r.Resolve(src); ok {
			return value, r.Name, true
		}
	}
	var zero T
	return zero, "", false
}
