package source

import "strings"

// Astr concatenates name fragments into a single mangled identifier and
// interns the result. It is the sole name-mangling root used when
// synthesizing wrapper and temporary names, mirroring the single
// concatenation point the rest of the compiler funnels generated names
// through.
func Astr(in *Interner, parts ...string) StringID {
	if len(parts) == 1 {
		return in.Intern(parts[0])
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
	}
	return in.Intern(b.String())
}

// AstrID is a convenience wrapper over Astr for a single already-interned
// prefix combined with a numeric suffix, the shape most of the generated
// temporaries and index names need (coerce_tmp, p_i_<n>, default_arg_<name>).
func AstrID(in *Interner, prefix StringID, suffix string) StringID {
	base, _ := in.Lookup(prefix)
	return Astr(in, base, suffix)
}
