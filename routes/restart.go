package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Restart answers first and then calls restart, which must not block.
func Restart(restart func()) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "REBOOTING!")

		restart()
	}
}
