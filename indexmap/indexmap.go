/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package indexmap

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/nftstore/errors"
)

// registry maps Go types to their DynamoDB index maps.
var (
	registry = make(map[reflect.Type]map[string]string)
	mu       sync.RWMutex
)

// Register associates a Go type T with a DynamoDB index map (PK, SK, etc.).
func Register[T any](idxMap map[string]string) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	mu.Lock()
	defer mu.Unlock()
	registry[t] = idxMap
}

// Get retrieves the index map for type T, if any.
func Get[T any]() (map[string]string, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[t]
	return m, ok
}

// MustGet is like Get but returns ErrNoIndexMap when T has no index map.
func MustGet[T any]() (map[string]string, error) {
	m, ok := Get[T]()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoIndexMap, reflect.TypeOf((*T)(nil)).Elem())
	}
	return m, nil
}

// Entry is one registered type and its index map. Fields lists the macros
// of every template, sorted and without duplicates.
type Entry struct {
	Type     string            `json:"type"`
	IndexMap map[string]string `json:"index_map"`
	Fields   []string          `json:"fields"`
}

// All returns every registered index map, sorted by type name.
func All() []Entry {
	mu.RLock()
	defer mu.RUnlock()

	entries := make([]Entry, 0, len(registry))
	for t, m := range registry {
		entries = append(entries, Entry{Type: t.String(), IndexMap: m, Fields: fields(m)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return entries
}

func fields(m map[string]string) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, template := range m {
		for _, name := range Macros(template) {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// Expand replaces every {Field} macro in the index map templates with the
// value of that field of input. Missing or non scalar fields expand to "".
func Expand(indexMap map[string]string, input any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		res[fieldName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			switch tv := av[key].(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				return ""
			}
		})
	}
	return res, nil
}

// Macros returns the field names referenced by a template, in order.
func Macros(template string) []string {
	var names []string
	for _, m := range macroPattern.FindAllStringSubmatch(template, -1) {
		names = append(names, m[1])
	}
	return names
}
