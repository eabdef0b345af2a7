package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nabin00012/codecommons/internal/models"
)

// findMaterial resolves the path segment against the classroom's
// materials: title first, then the material's generated id. The name
// arrives URL-decoded already (mux decodes path variables); decoding
// again here would make titles containing literal escapes unreachable.
func findMaterial(classroom *models.Classroom, name string) *models.Material {
	for i := range classroom.Materials {
		if classroom.Materials[i].Title == name {
			return &classroom.Materials[i]
		}
	}
	if id, err := primitive.ObjectIDFromHex(name); err == nil {
		for i := range classroom.Materials {
			if classroom.Materials[i].ID == id {
				return &classroom.Materials[i]
			}
		}
	}
	return nil
}

func materialContentType(m *models.Material) string {
	if m.ContentType != "" {
		return m.ContentType
	}
	return "application/octet-stream"
}

func materialFileName(m *models.Material) string {
	if m.FileName != "" {
		return m.FileName
	}
	return m.Title
}

// DownloadMaterial streams a stored material back to a classroom member.
// Inline base64 content is decoded to bytes; plain text is wrapped as a
// .txt attachment; URL-only materials redirect.
func (h *ClassroomHandler) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	classroom, status, msg := h.loadClassroom(r)
	if classroom == nil {
		respondError(w, status, msg)
		return
	}
	if !h.canAccess(r, classroom) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	material := findMaterial(classroom, mux.Vars(r)["name"])
	if material == nil {
		respondError(w, http.StatusNotFound, "Material not found")
		return
	}

	switch {
	case material.Content != "":
		data, err := base64.StdEncoding.DecodeString(material.Content)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to decode material")
			return
		}
		w.Header().Set("Content-Type", materialContentType(material))
		w.Header().Set("Content-Disposition", `attachment; filename="`+materialFileName(material)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case material.TextContent != "":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+material.Title+`.txt"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(material.TextContent))
	case material.URL != "":
		http.Redirect(w, r, material.URL, http.StatusFound)
	default:
		respondError(w, http.StatusNotFound, "Material not found")
	}
}
