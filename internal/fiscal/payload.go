package fiscal

import (
	"strconv"
	"strings"
)

// The external payload arrives under several nesting variants: a bare
// object, an object wrapped under a result key, or an array of wrappers.
// Each variant gets one matcher; matchers are tried in order and the first
// hit wins.

var (
	wrapperKeys     = []string{"result", "resultado", "data", "dados", "resposta"}
	guideKeys       = []string{"guias", "das", "debitos"}
	declarationKeys = []string{"declaracoes", "dasn"}
)

const maxNestingDepth = 4

type shapeMatcher func(raw any, depth int) (map[string]any, bool)

var shapeMatchers []shapeMatcher

func init() {
	shapeMatchers = []shapeMatcher{
		matchBareObject,
		matchWrappedObject,
		matchWrapperList,
	}
}

// locate walks the matcher list against the raw payload and returns the
// object that carries the guide and declaration lists.
func locate(raw any, depth int) (map[string]any, bool) {
	if depth > maxNestingDepth {
		return nil, false
	}
	for _, match := range shapeMatchers {
		if m, ok := match(raw, depth); ok {
			return m, true
		}
	}
	return nil, false
}

// matchBareObject accepts a map that directly carries a guide or
// declaration list.
func matchBareObject(raw any, _ int) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range append(append([]string{}, guideKeys...), declarationKeys...) {
		if _, present := m[k]; present {
			return m, true
		}
	}
	return nil, false
}

// matchWrappedObject descends through a known wrapper key.
func matchWrappedObject(raw any, depth int) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range wrapperKeys {
		if inner, present := m[k]; present {
			if found, ok := locate(inner, depth+1); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// matchWrapperList scans an array of result wrappers for the first
// recognizable element.
func matchWrapperList(raw any, depth int) (map[string]any, bool) {
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	for _, item := range list {
		if found, ok := locate(item, depth+1); ok {
			return found, true
		}
	}
	return nil, false
}

// rowList coerces the value under the first present key into a list of
// object rows, counting elements that are not objects as skipped.
func rowList(m map[string]any, keys ...string) (rows []map[string]any, skipped int) {
	for _, k := range keys {
		v, present := m[k]
		if !present {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				skipped++
				continue
			}
			rows = append(rows, row)
		}
		return rows, skipped
	}
	return nil, 0
}

// fieldString returns the first present key's value as a trimmed string.
func fieldString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, present := m[k]
		if !present || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

// fieldInt returns the first present key's value as an int, accepting JSON
// numbers and numeric strings.
func fieldInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, present := m[k]
		if !present || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}
