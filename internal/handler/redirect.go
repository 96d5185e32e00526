package handler

import "unicode"

// localRedirect returns target when it is a path on this site and "/"
// otherwise, so a crafted returnUrl cannot send users elsewhere.
func localRedirect(target string) string {
	if !isLocalURL(target) {
		return "/"
	}
	if target[0] == '~' {
		return target[1:]
	}
	return target
}

// isLocalURL accepts "/path" and "~/path". Scheme-relative ("//host") and
// backslash ("/\host") forms are rejected because browsers treat them as
// absolute.
func isLocalURL(u string) bool {
	switch {
	case u == "":
		return false
	case u[0] == '/':
		if len(u) == 1 {
			return true
		}
		if u[1] == '/' || u[1] == '\\' {
			return false
		}
		return !hasControlChars(u[1:])
	case len(u) > 1 && u[0] == '~' && u[1] == '/':
		if len(u) == 2 {
			return true
		}
		if u[2] == '/' || u[2] == '\\' {
			return false
		}
		return !hasControlChars(u[2:])
	}
	return false
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
