// Package dagrandom generates random dagcbor.Value trees for property-based
// testing. It is deliberately kept outside the dagcbor package itself: the
// random test-data generator is an external collaborator, not part of the
// core encoding/decoding logic it exercises.
package dagrandom

import (
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/hashberg-io/dag-cbor/dagcbor"
	"github.com/hashberg-io/dag-cbor/dagcbor/dagcid"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Options configures random value generation: integer/float/length ranges
// per kind, maximum nesting depth, container length bounds, whether to
// generate link values, and whether map keys come out pre-canonicalized.
type Options struct {
	MinInt, MaxInt                   int64
	MinBytesLen, MaxBytesLen         int
	MinStringLen, MaxStringLen       int
	MinFloat, MaxFloat               float64
	MaxNesting                       int
	MinContainerLen, MaxContainerLen int
	IncludeLink                      bool
	// Canonical, if true, always emits map entries already in canonical
	// key order, so generated values round-trip through Decode without
	// needing the encoder to re-sort anything.
	Canonical bool
}

// DefaultOptions returns a reasonable default configuration: small integers,
// short strings and byte strings, shallow nesting, and links included.
func DefaultOptions() Options {
	return Options{
		MinInt:          -100,
		MaxInt:          100,
		MinBytesLen:     0,
		MaxBytesLen:     8,
		MinStringLen:    0,
		MaxStringLen:    8,
		MinFloat:        -100.0,
		MaxFloat:        100.0,
		MaxNesting:      2,
		MinContainerLen: 0,
		MaxContainerLen: 8,
		IncludeLink:     true,
		Canonical:       true,
	}
}

// Generator produces random dagcbor.Value trees from a seeded source, so a
// failing test can be reproduced by recording and replaying the seed.
type Generator struct {
	opts Options
	rng  *rand.Rand
	fake *gofakeit.Faker // draws words from rng, not gofakeit's global source
}

// New returns a Generator seeded deterministically from seed.
func New(seed int64, opts Options) *Generator {
	rng := rand.New(rand.NewSource(seed))
	return &Generator{opts: opts, rng: rng, fake: &gofakeit.Faker{Rand: rng}}
}

// Value produces one random value, recursing into lists and maps up to
// opts.MaxNesting deep.
func (g *Generator) Value() dagcbor.Value {
	return g.value(0)
}

const (
	kindNull = iota
	kindBool
	kindInt
	kindFloat
	kindBytes
	kindString
	kindLink
	kindList
	kindMap
)

func (g *Generator) value(depth int) dagcbor.Value {
	choices := []int{kindNull, kindBool, kindInt, kindFloat, kindBytes, kindString}
	if g.opts.IncludeLink {
		choices = append(choices, kindLink)
	}
	if depth < g.opts.MaxNesting {
		choices = append(choices, kindList, kindMap)
	}

	switch choices[g.rng.Intn(len(choices))] {
	case kindNull:
		return dagcbor.Null()
	case kindBool:
		return dagcbor.Bool(g.rng.Intn(2) == 1)
	case kindInt:
		return g.randInt()
	case kindFloat:
		return g.randFloat()
	case kindBytes:
		return dagcbor.Bytes(g.randBytes())
	case kindString:
		return dagcbor.String(g.randString())
	case kindLink:
		return dagcbor.Link(g.randLink())
	case kindList:
		return g.randList(depth)
	default:
		return g.randMap(depth)
	}
}

func (g *Generator) randInt() dagcbor.Value {
	span := g.opts.MaxInt - g.opts.MinInt + 1
	if span <= 0 {
		return dagcbor.Int(g.opts.MinInt)
	}
	v := g.opts.MinInt + g.rng.Int63n(span)
	return dagcbor.Int(v)
}

func (g *Generator) randFloat() dagcbor.Value {
	span := g.opts.MaxFloat - g.opts.MinFloat
	f := g.opts.MinFloat + g.rng.Float64()*span
	return dagcbor.Float(f)
}

func (g *Generator) randLen(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func (g *Generator) randBytes() []byte {
	n := g.randLen(g.opts.MinBytesLen, g.opts.MaxBytesLen)
	b := make([]byte, n)
	g.rng.Read(b)
	return b
}

func (g *Generator) randString() string {
	n := g.randLen(g.opts.MinStringLen, g.opts.MaxStringLen)
	// gofakeit's word list gives readable, varied test strings rather than
	// uniform random runes; we trim/pad to the requested length so the
	// MinStringLen/MaxStringLen knobs still mean something.
	s := g.fake.LoremIpsumWord()
	for len(s) < n {
		s += g.fake.LoremIpsumWord()
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func (g *Generator) randLink() dagcbor.CID {
	digest := make([]byte, 32)
	g.rng.Read(digest)
	mh, err := multihash.Encode(digest, multihash.SHA2_256)
	if err != nil {
		panic(err) // encoding a fixed-length digest with a known code cannot fail
	}
	c := cid.NewCidV1(cid.Raw, mh)
	return dagcid.Wrap(c)
}

func (g *Generator) randList(depth int) dagcbor.Value {
	n := g.randLen(g.opts.MinContainerLen, g.opts.MaxContainerLen)
	items := make([]dagcbor.Value, n)
	for i := range items {
		items[i] = g.value(depth + 1)
	}
	return dagcbor.List(items)
}

func (g *Generator) randMap(depth int) dagcbor.Value {
	n := g.randLen(g.opts.MinContainerLen, g.opts.MaxContainerLen)
	seen := make(map[string]bool, n)
	entries := make([]dagcbor.MapEntry, 0, n)
	for len(entries) < n {
		k := g.randString() + "#" + g.fake.LoremIpsumWord()
		if seen[k] {
			continue
		}
		seen[k] = true
		entries = append(entries, dagcbor.MapEntry{Key: k, Value: g.value(depth + 1)})
	}
	if g.opts.Canonical {
		entries = canonicalize(entries)
	}
	return dagcbor.Map(entries)
}

func canonicalize(entries []dagcbor.MapEntry) []dagcbor.MapEntry {
	keys := make([]string, len(entries))
	byKey := make(map[string]dagcbor.Value, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		byKey[e.Key] = e.Value
	}
	ordered := dagcbor.CanonicalOrder(keys)
	out := make([]dagcbor.MapEntry, len(ordered))
	for i, k := range ordered {
		out[i] = dagcbor.MapEntry{Key: k, Value: byKey[k]}
	}
	return out
}
