package risk

import "encoding/json"

// Trust policy documents vary in shape: Statement may be a single
// object or an array, and Principal values may be strings or arrays.
// Decoding is tolerant; any failure means the document cannot vouch
// for the role and the caller treats it as orphaned.

type trustDocument struct {
	Statement json.RawMessage `json:"Statement"`
}

type trustStatement struct {
	Effect    string          `json:"Effect"`
	Principal json.RawMessage `json:"Principal"`
}

// hasTrustedPrincipal reports whether the raw trust policy document
// parses and at least one statement names a Service, AWS, or Federated
// principal. A bare "*" principal does not count as a named principal.
func hasTrustedPrincipal(raw string) bool {
	if raw == "" {
		return false
	}

	var doc trustDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return false
	}
	if len(doc.Statement) == 0 {
		return false
	}

	var statements []trustStatement
	if err := json.Unmarshal(doc.Statement, &statements); err != nil {
		// Single statement object rather than an array
		var single trustStatement
		if err := json.Unmarshal(doc.Statement, &single); err != nil {
			return false
		}
		statements = []trustStatement{single}
	}

	for _, st := range statements {
		if statementNamesPrincipal(st) {
			return true
		}
	}
	return false
}

func statementNamesPrincipal(st trustStatement) bool {
	if len(st.Principal) == 0 {
		return false
	}

	var principals map[string]json.RawMessage
	if err := json.Unmarshal(st.Principal, &principals); err != nil {
		return false
	}

	for _, key := range []string{"Service", "AWS", "Federated"} {
		val, ok := principals[key]
		if !ok {
			continue
		}
		if principalHasValue(val) {
			return true
		}
	}
	return false
}

func principalHasValue(raw json.RawMessage) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, v := range list {
			if v != "" {
				return true
			}
		}
	}
	return false
}
