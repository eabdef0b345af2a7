package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/middleware"
	"github.com/nabin00012/codecommons/internal/models"
)

type AssignmentHandler struct {
	assignments *mongo.Collection
	submissions *mongo.Collection
	classrooms  *mongo.Collection
	timeout     time.Duration
	log         *zap.Logger
}

func NewAssignmentHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *AssignmentHandler {
	db := client.Database(dbName)
	return &AssignmentHandler{
		assignments: db.Collection("assignments"),
		submissions: db.Collection("submissions"),
		classrooms:  db.Collection("classrooms"),
		timeout:     timeout,
		log:         log,
	}
}

type createAssignmentRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Points      int       `json:"points"`
}

// CreateAssignment adds an assignment to a classroom; only its teacher
// may post one.
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	classroomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid classroom ID")
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Assignment title and due date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var classroom models.Classroom
	if err := h.classrooms.FindOne(ctx, bson.M{"_id": classroomID}).Decode(&classroom); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Classroom not found")
		} else {
			h.log.Error("classroom lookup failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to fetch classroom")
		}
		return
	}
	if classroom.TeacherID != userID && middleware.UserRole(r.Context()) != string(models.RoleAdmin) {
		respondError(w, http.StatusForbidden, "Only the classroom teacher can create assignments")
		return
	}

	assignment := models.Assignment{
		ID:          primitive.NewObjectID(),
		ClassroomID: classroomID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Points:      req.Points,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}

	if _, err := h.assignments.InsertOne(ctx, assignment); err != nil {
		h.log.Error("assignment insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create assignment")
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// ListAssignments returns a classroom's assignments to its members.
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	classroomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid classroom ID")
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var classroom models.Classroom
	if err := h.classrooms.FindOne(ctx, bson.M{"_id": classroomID}).Decode(&classroom); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Classroom not found")
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to fetch classroom")
		}
		return
	}
	member := classroom.TeacherID == userID || middleware.UserRole(r.Context()) == string(models.RoleAdmin)
	if !member {
		for _, s := range classroom.Students {
			if s == userID {
				member = true
				break
			}
		}
	}
	if !member {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	cursor, err := h.assignments.Find(ctx, bson.M{"classroom_id": classroomID})
	if err != nil {
		h.log.Error("assignment list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch assignments")
		return
	}
	defer cursor.Close(ctx)

	assignments := []models.Assignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding assignments")
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

type submitRequest struct {
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

// Submit records a student's submission. The unique index on
// (assignment_id, student_id) rejects resubmission.
func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	studentID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Content == "" && req.FileURL == "" {
		respondError(w, http.StatusBadRequest, "Submission content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.assignments.FindOne(ctx, bson.M{"_id": assignmentID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Assignment not found")
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to fetch assignment")
		}
		return
	}

	submission := models.Submission{
		ID:           primitive.NewObjectID(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      req.Content,
		FileURL:      req.FileURL,
		Status:       models.StatusPending,
		SubmittedAt:  time.Now(),
	}

	if _, err := h.submissions.InsertOne(ctx, submission); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusConflict, "Assignment already submitted")
			return
		}
		h.log.Error("submission insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to submit assignment")
		return
	}

	respondJSON(w, http.StatusCreated, submission)
}

// ListSubmissions returns an assignment's submissions to the teacher who
// owns its classroom.
func (h *AssignmentHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	assignment, ok := h.requireOwnedAssignment(ctx, w, r, assignmentID)
	if !ok {
		return
	}

	cursor, err := h.submissions.Find(ctx, bson.M{"assignment_id": assignment.ID})
	if err != nil {
		h.log.Error("submission list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	defer cursor.Close(ctx)

	submissions := []models.Submission{}
	if err = cursor.All(ctx, &submissions); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding submissions")
		return
	}

	respondJSON(w, http.StatusOK, submissions)
}

type gradeRequest struct {
	Grade    int    `json:"grade"`
	Feedback string `json:"feedback"`
}

// Grade sets grade and feedback on a submission and moves it to graded.
func (h *AssignmentHandler) Grade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	assignmentID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}
	submissionID, err := primitive.ObjectIDFromHex(vars["sid"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := h.requireOwnedAssignment(ctx, w, r, assignmentID); !ok {
		return
	}

	graderID, _ := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))

	var submission models.Submission
	err = h.submissions.FindOneAndUpdate(ctx,
		bson.M{"_id": submissionID, "assignment_id": assignmentID},
		bson.M{"$set": bson.M{
			"grade":     req.Grade,
			"feedback":  req.Feedback,
			"status":    models.StatusGraded,
			"graded_by": graderID,
			"graded_at": time.Now(),
		}},
		findOneAndUpdateReturnAfter(),
	).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Submission not found")
		} else {
			h.log.Error("grade update failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to grade submission")
		}
		return
	}

	respondJSON(w, http.StatusOK, submission)
}

// requireOwnedAssignment loads the assignment and enforces the ownership
// gate: the caller must teach the classroom the assignment belongs to.
// On failure it writes the error response and returns ok=false.
func (h *AssignmentHandler) requireOwnedAssignment(ctx context.Context, w http.ResponseWriter, r *http.Request, assignmentID primitive.ObjectID) (*models.Assignment, bool) {
	var assignment models.Assignment
	if err := h.assignments.FindOne(ctx, bson.M{"_id": assignmentID}).Decode(&assignment); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Assignment not found")
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to fetch assignment")
		}
		return nil, false
	}

	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	if middleware.UserRole(r.Context()) == string(models.RoleAdmin) {
		return &assignment, true
	}

	var classroom models.Classroom
	if err := h.classrooms.FindOne(ctx, bson.M{"_id": assignment.ClassroomID}).Decode(&classroom); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch classroom")
		return nil, false
	}
	if classroom.TeacherID != userID {
		respondError(w, http.StatusForbidden, "Only the classroom teacher can manage submissions")
		return nil, false
	}
	return &assignment, true
}
