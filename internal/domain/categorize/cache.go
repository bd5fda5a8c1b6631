package categorize

// Cache holds accepted suggestions keyed by folded description. Entry
// lifetime and capacity belong to the implementation.
type Cache interface {
	Get(key string) (Suggestion, bool)
	Set(key string, suggestion Suggestion)
}

type noopCache struct{}

func (noopCache) Get(string) (Suggestion, bool) {
	return Suggestion{}, false
}

func (noopCache) Set(string, Suggestion) {}
