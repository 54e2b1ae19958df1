package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/linguavox/internal/language"
)

func Languages(w http.ResponseWriter, r *http.Request) {
	langs := language.All()
	writeJSON(w, http.StatusOK, map[string]interface{}{"languages": langs, "count": len(langs)})
}
