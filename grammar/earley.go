package grammar

import "fmt"

// item is one partially (or fully) matched alternative of a rule: the
// classic Earley item (rule, altIndex, dot, start), extended with the
// sequence of child Nodes matched by its terms so far so that, once an
// item completes, building its Branch is just reading off item.children.
//
// Ambiguity is not preserved: when two items would occupy the same
// (rule, alt, dot, start) slot, only the first one discovered is kept, so
// parsing always returns exactly one concrete derivation, per spec §4.1.
type item struct {
	rule     *Rule
	alt      int
	dot      int
	start    int
	children []Node
}

func (it *item) terms() []Term { return it.rule.Alternatives[it.alt].Terms }
func (it *item) done() bool    { return it.dot >= len(it.terms()) }
func (it *item) nextTerm() Term {
	return it.terms()[it.dot]
}

func (it *item) advance(child Node) *item {
	// Every term consumes exactly one slot in children, including a skipped
	// `opt` term or an Empty epsilon term, which append a nil Node — this
	// keeps Children[i] aligned with terms()[i] for positional AST
	// builders even when some terms are conditionally absent.
	children := append(append([]Node{}, it.children...), child)
	return &item{rule: it.rule, alt: it.alt, dot: it.dot + 1, start: it.start, children: children}
}

type itemKey struct {
	rule           string
	alt, dot, start int
}

// earleyParse runs the Earley recognizer over input (already comment- and
// continuation-stripped, per spec §6) against g starting from startSymbol,
// and extracts one concrete derivation tree spanning the whole input.
func earleyParse(g *Grammar, input []rune, startSymbol string) (Node, error) {
	n := len(input)
	sets := make([][]*item, n+1)
	seen := make([]map[itemKey]bool, n+1)
	for i := range sets {
		seen[i] = map[itemKey]bool{}
	}
	furthest := 0

	add := func(k int, it *item) {
		key := itemKey{it.rule.Name, it.alt, it.dot, it.start}
		if seen[k][key] {
			return
		}
		seen[k][key] = true
		sets[k] = append(sets[k], it)
		if k > furthest {
			furthest = k
		}
	}

	startRule, err := g.rule(startSymbol)
	if err != nil {
		return nil, err
	}
	for alt := range startRule.Alternatives {
		add(0, &item{rule: startRule, alt: alt, dot: 0, start: 0})
	}

	for k := 0; k <= n; k++ {
		for i := 0; i < len(sets[k]); i++ {
			it := sets[k][i]
			if it.done() {
				completeItem(g, sets, add, k, it)
				continue
			}
			switch t := it.nextTerm().(type) {
			case Ref:
				predictRef(g, add, k, t)
				// A rule that already completed empty at k did so before this
				// item started waiting on it, so completeItem never advanced
				// this item over it; do that here.
				for _, prev := range sets[k] {
					if prev.done() && prev.start == k && prev.rule.Name == t.Name {
						add(k, it.advance(&Branch{Sym: prev.rule.Name, AltIndex: prev.alt, Children: prev.children, Pos: Span{Start: k, End: k}}))
					}
				}
				if t.Opt {
					add(k, it.advance(nil))
				}
			case Empty:
				add(k, it.advance(nil))
			case Literal:
				if matchLiteral(input, k, t.Text) {
					leaf := &Leaf{Sym: "literal", Text: t.Text, Pos: Span{Start: k, End: k + runeLen(t.Text)}}
					add(k+runeLen(t.Text), it.advance(leaf))
				}
				if t.Opt {
					add(k, it.advance(nil))
				}
			case CharClass:
				if k < n && t.Matches(input[k]) {
					leaf := &Leaf{Sym: "char", Text: string(input[k]), Pos: Span{Start: k, End: k + 1}}
					add(k+1, it.advance(leaf))
				}
				if t.Opt {
					add(k, it.advance(nil))
				}
			}
		}
	}

	for _, it := range sets[n] {
		if it.rule.Name == startSymbol && it.start == 0 && it.done() {
			return &Branch{Sym: it.rule.Name, AltIndex: it.alt, Children: it.children, Pos: Span{Start: 0, End: n}}, nil
		}
	}
	return nil, fmt.Errorf("grammar: no parse for %q (matched up to offset %d of %d)", startSymbol, furthest, n)
}

// predictRef adds, to set k, one fresh item per alternative of the rule t
// refers to (the Earley "predictor" step).
func predictRef(g *Grammar, add func(int, *item), k int, t Ref) {
	r, err := g.rule(t.Name)
	if err != nil {
		// An undefined non-terminal is a grammar-table bug, not a parse
		// failure; predictRef silently skips it, so items waiting on it
		// never advance.
		return
	}
	for alt := range r.Alternatives {
		add(k, &item{rule: r, alt: alt, dot: 0, start: k})
	}
}

// completeItem is the Earley "completer" step: it, a just-finished
// instance of rule it.rule spanning [it.start, k), is wrapped into a
// Branch and threaded as the next child of every waiting item in
// sets[it.start] whose next term references it.rule.Name.
func completeItem(g *Grammar, sets [][]*item, add func(int, *item), k int, it *item) {
	branch := &Branch{Sym: it.rule.Name, AltIndex: it.alt, Children: it.children, Pos: Span{Start: it.start, End: k}}
	for _, waiting := range sets[it.start] {
		if waiting.done() {
			continue
		}
		ref, ok := waiting.nextTerm().(Ref)
		if !ok || ref.Name != it.rule.Name {
			continue
		}
		add(k, waiting.advance(branch))
	}
}

func matchLiteral(input []rune, pos int, text string) bool {
	rs := []rune(text)
	if pos+len(rs) > len(input) {
		return false
	}
	for i, r := range rs {
		if input[pos+i] != r {
			return false
		}
	}
	return true
}

func runeLen(s string) int { return len([]rune(s)) }
