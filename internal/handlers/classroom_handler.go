package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/middleware"
	"github.com/nabin00012/codecommons/internal/models"
)

type ClassroomHandler struct {
	classrooms *mongo.Collection
	timeout    time.Duration
	log        *zap.Logger
}

func NewClassroomHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		classrooms: client.Database(dbName).Collection("classrooms"),
		timeout:    timeout,
		log:        log,
	}
}

// generateClassCode produces a 6-character join code. Uniqueness is backed
// by the unique index on classrooms.code; the caller retries on collision.
func generateClassCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(bytes)), nil
}

type createClassroomRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
}

// CreateClassroom creates a classroom owned by the calling teacher.
func (h *ClassroomHandler) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	teacherID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createClassroomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Classroom name and subject are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	now := time.Now()
	classroom := models.Classroom{
		Name:        req.Name,
		Subject:     req.Subject,
		Description: req.Description,
		TeacherID:   teacherID,
		Students:    []primitive.ObjectID{},
		Materials:   []models.Material{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; attempt < 3; attempt++ {
		code, err := generateClassCode()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to generate class code")
			return
		}
		classroom.ID = primitive.NewObjectID()
		classroom.Code = code

		if _, err = h.classrooms.InsertOne(ctx, classroom); err == nil {
			respondJSON(w, http.StatusCreated, classroom)
			return
		} else if !mongo.IsDuplicateKeyError(err) {
			h.log.Error("classroom insert failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to create classroom")
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "Failed to create classroom")
}

// ListClassrooms returns classrooms the caller teaches or is enrolled in.
func (h *ClassroomHandler) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cursor, err := h.classrooms.Find(ctx, bson.M{"$or": []bson.M{
		{"teacher_id": userID},
		{"students": userID},
	}})
	if err != nil {
		h.log.Error("classroom list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch classrooms")
		return
	}
	defer cursor.Close(ctx)

	classrooms := []models.Classroom{}
	if err = cursor.All(ctx, &classrooms); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding classrooms")
		return
	}

	respondJSON(w, http.StatusOK, classrooms)
}

// GetClassroom returns one classroom; only its teacher, an enrolled
// student, or an admin may read it.
func (h *ClassroomHandler) GetClassroom(w http.ResponseWriter, r *http.Request) {
	classroom, status, msg := h.loadClassroom(r)
	if classroom == nil {
		respondError(w, status, msg)
		return
	}
	if !h.canAccess(r, classroom) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}
	respondJSON(w, http.StatusOK, classroom)
}

// JoinClassroom enrolls the caller into the classroom matching the posted
// code. Re-joining is a no-op.
func (h *ClassroomHandler) JoinClassroom(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Class code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var classroom models.Classroom
	err = h.classrooms.FindOneAndUpdate(ctx,
		bson.M{"code": strings.ToUpper(req.Code)},
		bson.M{
			"$addToSet": bson.M{"students": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		findOneAndUpdateReturnAfter(),
	).Decode(&classroom)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Classroom not found")
		} else {
			h.log.Error("classroom join failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to join classroom")
		}
		return
	}

	respondJSON(w, http.StatusOK, classroom)
}

type addMaterialRequest struct {
	Title       string `json:"title" validate:"required"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	TextContent string `json:"text_content"`
	URL         string `json:"url"`
}

// AddMaterial appends a material to the classroom. Only the owning
// teacher (or an admin) may add materials.
func (h *ClassroomHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	classroom, status, msg := h.loadClassroom(r)
	if classroom == nil {
		respondError(w, status, msg)
		return
	}
	if !h.isOwner(r, classroom) {
		respondError(w, http.StatusForbidden, "Only the classroom teacher can add materials")
		return
	}

	var req addMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Title == "" || (req.Content == "" && req.TextContent == "" && req.URL == "") {
		respondError(w, http.StatusBadRequest, "Material title and content are required")
		return
	}

	uploadedBy, _ := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	material := models.Material{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Content:     req.Content,
		TextContent: req.TextContent,
		URL:         req.URL,
		Size:        int64(len(req.Content)),
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	_, err := h.classrooms.UpdateOne(ctx,
		bson.M{"_id": classroom.ID},
		bson.M{
			"$push": bson.M{"materials": material},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		h.log.Error("material append failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to add material")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"material": material})
}

// ListMaterials returns the classroom's materials to its members.
func (h *ClassroomHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	classroom, status, msg := h.loadClassroom(r)
	if classroom == nil {
		respondError(w, status, msg)
		return
	}
	if !h.canAccess(r, classroom) {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}
	respondJSON(w, http.StatusOK, classroom.Materials)
}

func (h *ClassroomHandler) loadClassroom(r *http.Request) (*models.Classroom, int, string) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid classroom ID"
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var classroom models.Classroom
	if err := h.classrooms.FindOne(ctx, bson.M{"_id": id}).Decode(&classroom); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, http.StatusNotFound, "Classroom not found"
		}
		h.log.Error("classroom lookup failed", zap.Error(err))
		return nil, http.StatusInternalServerError, "Failed to fetch classroom"
	}
	return &classroom, 0, ""
}

func (h *ClassroomHandler) isOwner(r *http.Request, classroom *models.Classroom) bool {
	if middleware.UserRole(r.Context()) == string(models.RoleAdmin) {
		return true
	}
	return classroom.TeacherID.Hex() == middleware.UserID(r.Context())
}

func (h *ClassroomHandler) canAccess(r *http.Request, classroom *models.Classroom) bool {
	if h.isOwner(r, classroom) {
		return true
	}
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		return false
	}
	for _, s := range classroom.Students {
		if s == userID {
			return true
		}
	}
	return false
}
