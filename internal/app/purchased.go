package app

// PurchasedSet holds the display names bought during this run. It is never
// persisted, so a restart watches every product again.
type PurchasedSet struct {
	names map[string]struct{}
}

func NewPurchasedSet() *PurchasedSet {
	return &PurchasedSet{names: make(map[string]struct{})}
}

// Add records name and reports whether it was new.
func (p *PurchasedSet) Add(name string) bool {
	if _, ok := p.names[name]; ok {
		return false
	}
	p.names[name] = struct{}{}
	return true
}

func (p *PurchasedSet) Has(name string) bool {
	_, ok := p.names[name]
	return ok
}

func (p *PurchasedSet) Len() int {
	return len(p.names)
}
