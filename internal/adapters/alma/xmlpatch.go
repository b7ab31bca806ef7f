package alma

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// patchXML rewrites the character data of the first element whose
// ancestry matches path (relative to the document root), leaving every
// other token untouched. Contact updates fetch the full user document,
// patch the affected fields and resubmit it, so fields this driver
// does not model survive the round trip.
func patchXML(doc []byte, path []string, newValue string) ([]byte, error) {
	decoder := xml.NewDecoder(bytes.NewReader(doc))
	var out bytes.Buffer
	encoder := xml.NewEncoder(&out)

	var stack []string
	patched := false
	inTarget := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if !patched && pathMatches(stack, path) {
				inTarget = true
			}
			if err := encoder.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if inTarget {
				// Emit the replacement value just before the element
				// closes; any original chardata was dropped below.
				if err := encoder.EncodeToken(xml.CharData(newValue)); err != nil {
					return nil, err
				}
				inTarget = false
				patched = true
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if err := encoder.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if inTarget {
				continue
			}
			if err := encoder.EncodeToken(t); err != nil {
				return nil, err
			}
		default:
			if err := encoder.EncodeToken(tok); err != nil {
				return nil, err
			}
		}
	}

	if err := encoder.Flush(); err != nil {
		return nil, err
	}
	if !patched {
		return nil, fmt.Errorf("element %v not found in document", path)
	}
	return out.Bytes(), nil
}

// pathMatches reports whether the element stack ends with the given
// path anchored at the document root.
func pathMatches(stack, path []string) bool {
	if len(stack) != len(path) {
		return false
	}
	for i := range path {
		if stack[i] != path[i] {
			return false
		}
	}
	return true
}
