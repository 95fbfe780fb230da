package grammar

type Production struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
}

type Item struct {
	Production int      `json:"production"`
	Dot        int      `json:"dot"`
	LookAhead  []string `json:"look_ahead,omitempty"`
}

type Transition struct {
	Symbol string `json:"symbol"`
	State  int    `json:"state"`
}

// Reduce has no look-ahead symbols in an LR(0) report; the production is reduced regardless of the next symbol.
type Reduce struct {
	LookAhead  []string `json:"look_ahead,omitempty"`
	Production int      `json:"production"`
}

type Conflict struct {
	Kind    string   `json:"kind"`
	Symbol  string   `json:"symbol,omitempty"`
	Items   []*Item  `json:"items"`
	Actions []string `json:"actions"`
	Message string   `json:"message"`
}

type State struct {
	Number    int           `json:"number"`
	Items     []*Item       `json:"items"`
	Shift     []*Transition `json:"shift"`
	Reduce    []*Reduce     `json:"reduce"`
	GoTo      []*Transition `json:"goto"`
	Conflicts []*Conflict   `json:"conflicts"`
}

// Compaction describes the compressed form of an LR(1) table. Sizes count ints.
type Compaction struct {
	UniqueRows   int `json:"unique_rows"`
	ActionLists  int `json:"action_lists"`
	OriginalSize int `json:"original_size"`
	Size         int `json:"size"`
}

type Report struct {
	Name         string        `json:"name"`
	Method       string        `json:"method"`
	Terminals    []string      `json:"terminals"`
	NonTerminals []string      `json:"non_terminals"`
	Productions  []*Production `json:"productions"`
	States       []*State      `json:"states"`
	Compaction   *Compaction   `json:"compaction,omitempty"`
}

// ConflictCount returns the number of conflicts of each kind.
func (r *Report) ConflictCount() map[string]int {
	c := map[string]int{}
	for _, s := range r.States {
		for _, con := range s.Conflicts {
			c[con.Kind]++
		}
	}
	return c
}
