package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRemoveFilterRequiresPresence(t *testing.T) {
	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := removeFilter(id, userID, "members")

	assert.Equal(t, id, filter["_id"])
	assert.Equal(t, userID, filter["members"])
}

func TestRemoveUpdateWithCounter(t *testing.T) {
	userID := primitive.NewObjectID()

	update := removeUpdate(userID, "members", "member_count")

	assert.Equal(t, bson.M{"members": userID}, update["$pull"])
	assert.Equal(t, bson.M{"member_count": -1}, update["$inc"])
}

func TestRemoveUpdateWithoutCounter(t *testing.T) {
	userID := primitive.NewObjectID()

	update := removeUpdate(userID, "likes", "")

	assert.Equal(t, bson.M{"likes": userID}, update["$pull"])
	assert.NotContains(t, update, "$inc")
}

func TestAddFilterRequiresAbsence(t *testing.T) {
	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := addFilter(id, userID, "likes", "")

	assert.Equal(t, id, filter["_id"])
	assert.Equal(t, bson.M{"$ne": userID}, filter["likes"])
	assert.NotContains(t, filter, "$expr")
}

func TestAddFilterCapacityGuard(t *testing.T) {
	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := addFilter(id, userID, "attendees", "max_attendees")

	expr, ok := filter["$expr"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, bson.M{"$lt": bson.A{
		bson.M{"$size": "$attendees"},
		"$max_attendees",
	}}, expr)
}

func TestAddUpdateWithCounter(t *testing.T) {
	userID := primitive.NewObjectID()

	update := addUpdate(userID, "members", "member_count")

	assert.Equal(t, bson.M{"members": userID}, update["$addToSet"])
	assert.Equal(t, bson.M{"member_count": 1}, update["$inc"])
}

func TestAddUpdateWithoutCounter(t *testing.T) {
	userID := primitive.NewObjectID()

	update := addUpdate(userID, "upvoters", "upvotes")

	assert.Equal(t, bson.M{"upvoters": userID}, update["$addToSet"])
	assert.Equal(t, bson.M{"upvotes": 1}, update["$inc"])
}
