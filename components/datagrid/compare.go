package datagrid

import (
	"cmp"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// comparator orders two records ascending. It is total: missing values sort
// below any defined value and compare equal to each other.
type comparator func(a, b Record) int

// collatorFor builds a locale-aware collator. Collators keep internal buffers
// so callers build one per sort invocation.
func collatorFor(locale string) *collate.Collator {
	return collate.New(parseLocale(locale))
}

func parseLocale(locale string) language.Tag {
	locale = normalizeLocale(locale)
	if locale == "" {
		return language.Und
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}

func ascendingComparator(col ColumnSpec, coll *collate.Collator) comparator {
	key := string(col.Field)
	switch col.Type {
	case TypeNumber:
		return func(a, b Record) int {
			av, aok := numberValue(a[key])
			bv, bok := numberValue(b[key])
			return compareMissing(aok, bok, func() int { return cmp.Compare(av, bv) })
		}
	case TypeDate:
		return func(a, b Record) int {
			av, aok := dateValue(a[key])
			bv, bok := dateValue(b[key])
			return compareMissing(aok, bok, func() int { return cmp.Compare(av, bv) })
		}
	default:
		return func(a, b Record) int {
			av, aok := displayString(a[key])
			bv, bok := displayString(b[key])
			return compareMissing(aok, bok, func() int { return coll.CompareString(av, bv) })
		}
	}
}

func compareMissing(aok, bok bool, both func() int) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return both()
}

func directed(c comparator, dir SortDirection) comparator {
	if dir != SortDesc {
		return c
	}
	return func(a, b Record) int {
		return -c(a, b)
	}
}
