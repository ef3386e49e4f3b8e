package query

// truth is a SQL three-valued logic value.
type truth int8

const (
	unknown truth = iota
	falsy
	truthy
)

func truthOf(b bool) truth {
	if b {
		return truthy
	}
	return falsy
}

func (t truth) and(o truth) truth {
	switch {
	case t == falsy || o == falsy:
		return falsy
	case t == truthy && o == truthy:
		return truthy
	default:
		return unknown
	}
}

func (t truth) or(o truth) truth {
	switch {
	case t == truthy || o == truthy:
		return truthy
	case t == falsy && o == falsy:
		return falsy
	default:
		return unknown
	}
}

func (t truth) not() truth {
	switch t {
	case truthy:
		return falsy
	case falsy:
		return truthy
	default:
		return unknown
	}
}
