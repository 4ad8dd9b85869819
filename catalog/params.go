package catalog

import "fmt"

// Params carries the parameters of a statement execution, either indexed or named.
type Params struct {
	indexed []any
	named   map[string]any
}

// NoParams returns an empty parameter set.
func NoParams() Params {
	return Params{}
}

// IndexedParams returns positional parameters.
func IndexedParams(args ...any) Params {
	return Params{indexed: args}
}

// NamedParams returns named parameters. The map is copied.
func NamedParams(named map[string]any) Params {
	cp := make(map[string]any, len(named))
	for k, v := range named {
		cp[k] = v
	}

	return Params{named: cp}
}

// IsNamed reports whether the parameters are named.
func (p Params) IsNamed() bool {
	return p.named != nil
}

// Indexed returns the positional parameters.
func (p Params) Indexed() []any {
	return p.indexed
}

// Named returns the named parameters.
func (p Params) Named() map[string]any {
	return p.named
}

// Len returns the number of parameters.
func (p Params) Len() int {
	if p.IsNamed() {
		return len(p.named)
	}

	return len(p.indexed)
}

// Resolve returns the parameter for the given key. Named parameters are looked up by key,
// indexed parameters by position, which lets a statement declare both for the same value.
func (p Params) Resolve(key string, position int) (any, error) {
	if p.IsNamed() {
		v, ok := p.named[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingParameter, key)
		}

		return v, nil
	}

	if position < 0 || position >= len(p.indexed) {
		return nil, fmt.Errorf("%w: %q at position %d", ErrMissingParameter, key, position)
	}

	return p.indexed[position], nil
}

// ResolveString is Resolve for string parameters.
func (p Params) ResolveString(key string, position int) (string, error) {
	v, err := p.Resolve(key, position)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrMissingParameter, key, v)
	}

	return s, nil
}

// OldISBNPosition is the position of the replaced isbn in the indexed parameters of UpdateBookByISBN.
const OldISBNPosition = 4

// BookFromParams reads the four book fields, by key for named and by position for indexed parameters.
func BookFromParams(params Params) (Book, error) {
	var book Book
	var err error

	if book.Name, err = params.ResolveString(ColName, 0); err != nil {
		return Book{}, err
	}

	if book.Author, err = params.ResolveString(ColAuthor, 1); err != nil {
		return Book{}, err
	}

	if book.ISBN, err = params.ResolveString(ColISBN, 2); err != nil {
		return Book{}, err
	}

	if book.Language, err = params.ResolveString(ColLanguage, 3); err != nil {
		return Book{}, err
	}

	return book, nil
}
