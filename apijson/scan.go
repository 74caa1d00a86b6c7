package apijson

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
)

// Severity selects how duplicate top-level keys are handled while parsing.
type Severity int

const (
	Ignore Severity = iota // Last value wins.
	Error                  // Parsing fails with a duplicate_key issue.
)

// ParseOptions bundles store parsing options.
type ParseOptions struct {
	OnDuplicateKey Severity
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// scanKeys walks the token stream of a JSON object and returns its top-level
// keys in order of first appearance plus any keys that appeared twice.
func scanKeys(data []byte) (keys, dups []string, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var stack []frame
	seen := make(map[string]struct{})

	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
			}
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{kind: kindObject, expectingKey: true})
			case '[':
				stack = append(stack, frame{kind: kindArray})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if top.kind == kindObject && top.expectingKey {
					top.expectingKey = false
					if n == 1 {
						if _, ok := seen[v]; ok {
							dups = append(dups, v)
						} else {
							seen[v] = struct{}{}
							keys = append(keys, v)
						}
					}
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
	return keys, dups, nil
}
