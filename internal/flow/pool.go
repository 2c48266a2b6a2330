package flow

// amounts is an insertion-ordered team → headcount map.
type amounts struct {
	order []string
	val   map[string]float64
}

func newAmounts() *amounts {
	return &amounts{val: make(map[string]float64)}
}

func (a *amounts) get(k string) float64 { return a.val[k] }

func (a *amounts) set(k string, v float64) {
	if _, ok := a.val[k]; !ok {
		a.order = append(a.order, k)
	}
	a.val[k] = v
}

// pool is the previous column's headcount still available for transfer,
// per project in registry order.
type pool struct {
	order []string
	byID  map[string]*amounts
}

func newPool() *pool {
	return &pool{byID: make(map[string]*amounts)}
}

func (p *pool) add(projectID string) *amounts {
	a := newAmounts()
	p.order = append(p.order, projectID)
	p.byID[projectID] = a
	return a
}
