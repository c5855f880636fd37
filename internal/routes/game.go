package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"minute_empire_server/pkg/handlers"
	"minute_empire_server/pkg/logger"
)

// commandData :
// The payload of a command submission.
type commandData struct {
	Command string `json:"command"`
}

// villageData :
// The payload of a village creation request.
type villageData struct {
	Name string `json:"name"`
}

// villages :
// Serves the `/villages` subtree. A `GET` lists the
// villages of the caller, a `POST` on the bare route
// founds a new village and a `POST` on the `command`
// child submits an order for the designated village.
func (s *Server) villages(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method == "GET" {
		s.listVillages(w, r, userID)
		return
	}

	elems := handlers.RouteElements(r.URL.Path)
	if strings.HasSuffix(handlers.SanitizeRoute(r.URL.Path), "/command") && len(elems) == 3 {
		s.submitCommand(w, r, userID, elems[1])
		return
	}

	s.createVillage(w, r, userID)
}

// listVillages :
// Answers with the villages of the caller, with their
// resources accrued to the current instant.
func (s *Server) listVillages(w http.ResponseWriter, r *http.Request, userID string) {
	villages, err := s.engine.VillagesForUser(r.Context(), userID)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to fetch villages for \"%s\" (err: %v)", userID, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, villages)
}

// createVillage :
// Founds a new village for the caller on a free tile.
func (s *Server) createVillage(w http.ResponseWriter, r *http.Request, userID string) {
	var data villageData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(data.Name) == 0 {
		handlers.WriteError(w, http.StatusBadRequest, "Village name is mandatory")
		return
	}

	village, err := s.engine.CreateVillage(r.Context(), userID, data.Name)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to create village for \"%s\" (err: %v)", userID, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, village)
}

// submitCommand :
// Parses and executes a textual order on the designated
// village. Invalid orders are not errors of the server:
// the outcome is answered with a `200` and the success
// flag tells whether the order was accepted.
func (s *Server) submitCommand(w http.ResponseWriter, r *http.Request, userID string, villageID string) {
	var data commandData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.engine.SubmitCommand(r.Context(), userID, villageID, data.Command)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to process command for \"%s\" (err: %v)", villageID, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, res)
}

// mapInfo :
// Answers with the view of the world for the caller.
func (s *Server) mapInfo(w http.ResponseWriter, r *http.Request, userID string) {
	info, err := s.engine.MapForUser(r.Context(), userID)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to build map for \"%s\" (err: %v)", userID, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, info)
}
