package check

// Provider is the minimal contract a pluggable check provider implements.
// All other provider hooks are optional capabilities declared through the
// interfaces below and detected with explicit type assertions.
type Provider interface {
	// Name returns the provider's identifier within the module namespace.
	Name() string
}

// Initializer is implemented by providers that need a startup hook. The
// loader calls Init once, before items are collected. Absence of the hook is
// not an error.
type Initializer interface {
	Init() error
}

// ItemLister is implemented by providers that expose a list of items.
type ItemLister interface {
	Items() ([]*Item, error)
}

// ItemSource is implemented by providers that expose exactly one item.
// Providers implement either ItemLister or ItemSource; a provider
// implementing neither declares zero items.
type ItemSource interface {
	Item() (*Item, error)
}
