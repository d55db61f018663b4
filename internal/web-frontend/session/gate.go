package session

import "strings"

const (
	LoginPath    = "/login"
	CallbackPath = "/auth/callback"
	LandingPath  = "/"
)

// publicPaths são as únicas páginas acessíveis sem sessão
var publicPaths = map[string]struct{}{
	LoginPath:    {},
	CallbackPath: {},
}

func IsPublic(path string) bool {
	_, ok := publicPaths[normalize(path)]
	return ok
}

// Redirect é a regra única de proteção de páginas. Só decide depois da
// inicialização, para não redirecionar com estado incompleto.
func Redirect(st State, path string) (string, bool) {
	if !st.IsInitialized || st.IsLoading {
		return "", false
	}
	p := normalize(path)
	switch {
	case !st.IsAuthenticated && !IsPublic(p):
		return LoginPath, true
	case st.IsAuthenticated && p == LoginPath:
		return LandingPath, true
	}
	return "", false
}

func normalize(path string) string {
	if path == "" {
		return LandingPath
	}
	if p := strings.TrimRight(path, "/"); p != "" {
		return p
	}
	return LandingPath
}
