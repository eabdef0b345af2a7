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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/middleware"
	"github.com/nabin00012/codecommons/internal/models"
)

type QuestionHandler struct {
	questions *mongo.Collection
	timeout   time.Duration
	log       *zap.Logger
}

func NewQuestionHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: client.Database(dbName).Collection("questions"),
		timeout:   timeout,
		log:       log,
	}
}

// ListQuestions returns a page of questions, newest first. Takes the
// same page/limit/query/tags parameters as discussions.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	total, err := h.questions.CountDocuments(ctx, q.filter)
	if err != nil {
		h.log.Error("question count failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((q.page - 1) * q.limit).
		SetLimit(q.limit)

	cursor, err := h.questions.Find(ctx, q.filter, opts)
	if err != nil {
		h.log.Error("question list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err = cursor.All(ctx, &questions); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding questions")
		return
	}

	totalPages := (total + q.limit - 1) / q.limit
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions":  questions,
		"total":      total,
		"page":       q.page,
		"totalPages": totalPages,
	})
}

type createQuestionRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// CreateQuestion posts a question authored by the caller.
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	authorID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Question title and content are required")
		return
	}

	now := time.Now()
	question := models.Question{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Answers:   []models.Answer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if question.Tags == nil {
		question.Tags = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.questions.InsertOne(ctx, question); err != nil {
		h.log.Error("question insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	respondJSON(w, http.StatusCreated, question)
}

// GetQuestion returns one question with its answers.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var question models.Question
	if err := h.questions.FindOne(ctx, bson.M{"_id": questionID}).Decode(&question); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Question not found")
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to fetch question")
		}
		return
	}

	respondJSON(w, http.StatusOK, question)
}

// AddAnswer appends an answer and returns it.
func (h *QuestionHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}
	authorID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Answer content is required")
		return
	}

	answer := models.Answer{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.questions.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{
			"$push": bson.M{"answers": answer},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		h.log.Error("answer append failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to add answer")
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Question not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"answer": answer})
}

// AcceptAnswer toggles acceptance of one answer. Only the question's
// author may accept, and accepting one answer clears every other
// answer's flag in the same update, keeping at most one accepted.
func (h *QuestionHandler) AcceptAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	questionID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}
	answerID, err := primitive.ObjectIDFromHex(vars["answerId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid answer ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var question models.Question
	if err := h.questions.FindOne(ctx, bson.M{"_id": questionID}).Decode(&question); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Question not found")
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to fetch question")
		}
		return
	}

	if question.AuthorID.Hex() != middleware.UserID(r.Context()) &&
		middleware.UserRole(r.Context()) != string(models.RoleAdmin) {
		respondError(w, http.StatusForbidden, "Only the question author can accept an answer")
		return
	}

	var target *models.Answer
	for i := range question.Answers {
		if question.Answers[i].ID == answerID {
			target = &question.Answers[i]
			break
		}
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "Answer not found")
		return
	}

	accepted := !target.IsAccepted
	update := bson.M{"$set": bson.M{
		"answers.$[target].is_accepted": accepted,
		"answers.$[others].is_accepted": false,
		"updated_at":                    time.Now(),
	}}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"target._id": answerID},
			bson.M{"others._id": bson.M{"$ne": answerID}},
		},
	})

	if _, err := h.questions.UpdateOne(ctx, bson.M{"_id": questionID}, update, arrayFilters); err != nil {
		h.log.Error("accept toggle failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update answer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"isAccepted": accepted,
	})
}
