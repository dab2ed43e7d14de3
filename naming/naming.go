// Package naming defines how primitives and scenarios are named.
//
// Names are hierarchical, with dot-separated elements such as
// "Carwash.Machines". Elements start with a capital letter and a series of
// elements is indexed with square brackets, as in "Clock[1]".
package naming

import (
	"strconv"
	"strings"
)

// Named describes an object that has a name.
type Named interface {
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b NamedBase) Name() string {
	return b.name
}

// MakeNamedBase validates name and creates a NamedBase.
func MakeNamedBase(name string) NamedBase {
	MustBeValid(name)
	return NamedBase{name: name}
}

// A Name is a parsed hierarchical name.
type Name struct {
	Tokens []Token
}

// Token is one element of a name.
type Token struct {
	ElemName string
	Index    []int
}

// Parse splits a name into its elements.
func Parse(sname string) Name {
	tokens := strings.Split(sname, ".")
	name := Name{Tokens: make([]Token, len(tokens))}

	for i, token := range tokens {
		name.Tokens[i] = parseToken(token)
	}

	return name
}

func parseToken(token string) Token {
	bracketMustMatch(token)

	ts := strings.Split(token, "[")
	indices := make([]int, len(ts)-1)

	for i := 1; i < len(ts); i++ {
		if !strings.HasSuffix(ts[i], "]") {
			panic("name index must be closed by a bracket")
		}

		index, err := strconv.Atoi(ts[i][:len(ts[i])-1])
		if err != nil {
			panic("name index must be an integer")
		}

		indices[i-1] = index
	}

	return Token{ElemName: ts[0], Index: indices}
}

func bracketMustMatch(name string) {
	open := 0

	for _, c := range name {
		switch c {
		case '[':
			open++
		case ']':
			open--
			if open < 0 {
				panic("name brackets must match")
			}
		}
	}

	if open != 0 {
		panic("name brackets must match")
	}
}

// MustBeValid panics if name does not follow the naming convention. Every
// element must be non-empty, must start with a capital letter, and must not
// contain underscores, quotes, dashes, or spaces.
func MustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + strconv.Quote(name) + " is not valid: " + r.(string))
		}
	}()

	for _, token := range Parse(name).Tokens {
		tokenMustBeValid(token)
	}
}

func tokenMustBeValid(token Token) {
	if token.ElemName == "" {
		panic("name element must not be empty")
	}

	for _, c := range []string{"_", "\"", "'", "-", " "} {
		if strings.Contains(token.ElemName, c) {
			panic("name element must not contain " + strconv.Quote(c))
		}
	}

	if token.ElemName[0] < 'A' || token.ElemName[0] > 'Z' {
		panic("name element must start with a capital letter")
	}
}

// Build joins a parent name and an element name.
func Build(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildWithIndex joins a parent name and an indexed element name.
func BuildWithIndex(parentName, elementName string, index int) string {
	return Build(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
