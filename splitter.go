package charseq

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"regexp/syntax"
	"sync/atomic"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"
)

const PATTERN_CACHE_SZ = 64

var (
	ErrInvalidPattern = errors.New("charseq: invalid delimiter pattern")
	ErrNoSequences    = errors.New("charseq: no sequences left")
)

// Splitter cuts a corpus into sequences on a delimiter pattern. Compiled
// patterns are kept in an ARC cache, so repeated splits on the same pattern
// compile it once.
type Splitter struct {
	compiled uint64
	patterns *lru.ARCCache
}

// delimiter is a compiled pattern plus its parse tree, which Split consults
// to find empty matches that regexp skips.
type delimiter struct {
	re   *regexp.Regexp
	tree *syntax.Regexp
}

func NewSplitter() *Splitter {
	cache, _ := lru.NewARC(PATTERN_CACHE_SZ)
	return &Splitter{patterns: cache}
}

// Compile returns the compiled form of a delimiter pattern string.
func (splitter *Splitter) Compile(pattern string) (*regexp.Regexp, error) {
	delim, err := splitter.delimiter(pattern)
	if err != nil {
		return nil, err
	}
	return delim.re, nil
}

// Compiled reports how many patterns had to be compiled rather than taken
// from the cache.
func (splitter *Splitter) Compiled() uint64 {
	return atomic.LoadUint64(&splitter.compiled)
}

func (splitter *Splitter) delimiter(pattern string) (*delimiter, error) {
	if splitter.patterns != nil {
		if cached, ok := splitter.patterns.Get(pattern); ok {
			return cached.(*delimiter), nil
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	tree, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	atomic.AddUint64(&splitter.compiled, 1)
	delim := &delimiter{re: re, tree: tree.Simplify()}
	if splitter.patterns != nil {
		splitter.patterns.Add(pattern, delim)
	}
	return delim, nil
}

// Split
// Splits `text` on every match of `pattern`, discarding the delimiters.
// Adjacent delimiters produce empty pieces, as do delimiters at either end.
// A pattern that matches the empty string splits between every character,
// including right after a non-empty match, so `x*` on "abc" gives
// "", "a", "b", "c", "".
func (splitter *Splitter) Split(text string, pattern string) ([]string,
	error) {
	delim, err := splitter.delimiter(pattern)
	if err != nil {
		return nil, err
	}
	matches := delim.re.FindAllStringIndex(text, -1)
	pieces := make([]string, 0, len(matches)+1)
	last := 0
	for idx, match := range matches {
		pieces = append(pieces, text[last:match[0]])
		last = match[1]
		if match[0] == match[1] {
			continue
		}
		// regexp drops an empty match that abuts the previous match.
		next := len(text) + 1
		if idx+1 < len(matches) {
			next = matches[idx+1][0]
		}
		if next != last && delim.matchesEmptyAt(text, last) {
			pieces = append(pieces, "")
		}
	}
	return append(pieces, text[last:]), nil
}

// matchesEmptyAt reports whether the pattern can match the empty string at
// byte offset `pos` of `text`.
func (delim *delimiter) matchesEmptyAt(text string, pos int) bool {
	before, after := rune(-1), rune(-1)
	if pos > 0 {
		before, _ = utf8.DecodeLastRuneInString(text[:pos])
	}
	if pos < len(text) {
		after, _ = utf8.DecodeRuneInString(text[pos:])
	}
	return matchesEmpty(delim.tree, syntax.EmptyOpContext(before, after))
}

func matchesEmpty(re *syntax.Regexp, context syntax.EmptyOp) bool {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpStar, syntax.OpQuest:
		return true
	case syntax.OpBeginLine:
		return context&syntax.EmptyBeginLine != 0
	case syntax.OpEndLine:
		return context&syntax.EmptyEndLine != 0
	case syntax.OpBeginText:
		return context&syntax.EmptyBeginText != 0
	case syntax.OpEndText:
		return context&syntax.EmptyEndText != 0
	case syntax.OpWordBoundary:
		return context&syntax.EmptyWordBoundary != 0
	case syntax.OpNoWordBoundary:
		return context&syntax.EmptyNoWordBoundary != 0
	case syntax.OpCapture, syntax.OpPlus:
		return matchesEmpty(re.Sub[0], context)
	case syntax.OpRepeat:
		return re.Min == 0 || matchesEmpty(re.Sub[0], context)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if !matchesEmpty(sub, context) {
				return false
			}
		}
		return true
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			if matchesEmpty(sub, context) {
				return true
			}
		}
		return false
	}
	return false
}

// TextToSequences
// Splits `text` on `pattern` and encodes every piece as a START/END bounded
// sequence, in split order. No filtering happens here.
func (splitter *Splitter) TextToSequences(text string, pattern string,
	vocab *Vocabulary) ([]Sequence, error) {
	pieces, err := splitter.Split(text, pattern)
	if err != nil {
		return nil, err
	}
	return PiecesToSequences(pieces, vocab)
}

func PiecesToSequences(pieces []string, vocab *Vocabulary) ([]Sequence,
	error) {
	seqs := make([]Sequence, len(pieces))
	for idx, piece := range pieces {
		seq, err := vocab.EncodeSequence(piece)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", idx, err)
		}
		seqs[idx] = seq
	}
	return seqs, nil
}

// FilterMaxLen
// Keeps only sequences strictly shorter than `maxlen`, markers included. A
// `maxlen` of 0 or less disables the filter.
func FilterMaxLen(seqs []Sequence, maxlen int) []Sequence {
	if maxlen <= 0 {
		return seqs
	}
	kept := make([]Sequence, 0, len(seqs))
	for _, seq := range seqs {
		if len(seq) < maxlen {
			kept = append(kept, seq)
		}
	}
	return kept
}

// FilterEmpty drops zero length sequences. Every sequence carries its START
// and END markers by now, so this never removes anything; it is kept as the
// last filtering stage regardless.
func FilterEmpty(seqs []Sequence) []Sequence {
	kept := make([]Sequence, 0, len(seqs))
	for _, seq := range seqs {
		if len(seq) > 0 {
			kept = append(kept, seq)
		}
	}
	return kept
}

// SplitSequences
// Runs the whole splitting stage: split on `pattern`, encode, then apply
// the maxlen and length-0 filters, logging counts along the way.
func (splitter *Splitter) SplitSequences(text string, pattern string,
	vocab *Vocabulary, maxlen int) ([]Sequence, error) {
	pieces, err := splitter.Split(text, pattern)
	if err != nil {
		return nil, err
	}
	return PrepareSequences(pieces, vocab, maxlen)
}

// PrepareSequences
// Encodes pre-split pieces and filters them. It fails with ErrNoSequences
// when nothing survives, instead of producing an empty dataset.
func PrepareSequences(pieces []string, vocab *Vocabulary,
	maxlen int) ([]Sequence, error) {
	seqs, err := PiecesToSequences(pieces, vocab)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("%w: split produced nothing", ErrNoSequences)
	}
	log.Printf("Split input into %d sequences...", len(seqs))
	log.Printf("Longest sequence is %d characters. If this seems "+
		"unreasonable, consider using the maxlen argument!", MaxLength(seqs))
	if maxlen > 0 {
		log.Printf("Removing sequences longer than %d characters...", maxlen)
		seqs = FilterMaxLen(seqs, maxlen)
		log.Printf("%d sequences remaining.", len(seqs))
		if len(seqs) == 0 {
			return nil, fmt.Errorf("%w: every sequence is %d or longer",
				ErrNoSequences, maxlen)
		}
		log.Printf("Longest remaining sequence has length %d.",
			MaxLength(seqs))
	}
	log.Print("Removing length-0 sequences...")
	seqs = FilterEmpty(seqs)
	log.Printf("%d sequences remaining.", len(seqs))
	return seqs, nil
}
