package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// toggleResult reports the outcome of a membership toggle.
type toggleResult int

const (
	toggleRemoved toggleResult = iota
	toggleAdded
	toggleNotFound
	toggleFull
)

// removeFilter matches the document only while the user is in the set, so
// a concurrent duplicate leave is a no-op.
func removeFilter(id, userID primitive.ObjectID, field string) bson.M {
	return bson.M{"_id": id, field: userID}
}

func removeUpdate(userID primitive.ObjectID, field, counterField string) bson.M {
	update := bson.M{"$pull": bson.M{field: userID}}
	if counterField != "" {
		update["$inc"] = bson.M{counterField: -1}
	}
	return update
}

// addFilter matches only while the user is absent; capacityField, when
// set, additionally requires len(set) < capacityField so a full set can
// never over-admit, regardless of interleaving.
func addFilter(id, userID primitive.ObjectID, field, capacityField string) bson.M {
	filter := bson.M{"_id": id, field: bson.M{"$ne": userID}}
	if capacityField != "" {
		filter["$expr"] = bson.M{"$lt": bson.A{
			bson.M{"$size": "$" + field},
			"$" + capacityField,
		}}
	}
	return filter
}

func addUpdate(userID primitive.ObjectID, field, counterField string) bson.M {
	update := bson.M{"$addToSet": bson.M{field: userID}}
	if counterField != "" {
		update["$inc"] = bson.M{counterField: 1}
	}
	return update
}

// toggleMembership removes userID from the named set field if present,
// otherwise adds it. Both arms are single conditional UpdateOne calls
// whose filters encode the precondition, so two racing requests cannot
// both add, both remove, or skew counterField. counterField and
// capacityField are optional ("" to skip).
func toggleMembership(ctx context.Context, coll *mongo.Collection, id, userID primitive.ObjectID, field, counterField, capacityField string) (toggleResult, error) {
	res, err := coll.UpdateOne(ctx, removeFilter(id, userID, field), removeUpdate(userID, field, counterField))
	if err != nil {
		return toggleNotFound, err
	}
	if res.ModifiedCount == 1 {
		return toggleRemoved, nil
	}

	res, err = coll.UpdateOne(ctx, addFilter(id, userID, field, capacityField), addUpdate(userID, field, counterField))
	if err != nil {
		return toggleNotFound, err
	}
	if res.ModifiedCount == 1 {
		return toggleAdded, nil
	}

	// Neither arm matched: the document is missing, the capacity guard
	// blocked the add, or a concurrent request won the toggle.
	err = coll.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return toggleNotFound, nil
	}
	if err != nil {
		return toggleNotFound, err
	}
	// A racing request may have inserted the user between the two arms;
	// the set already holds them, which is what the caller asked for.
	err = coll.FindOne(ctx, bson.M{"_id": id, field: userID}).Err()
	if err == nil {
		return toggleAdded, nil
	}
	if err != mongo.ErrNoDocuments {
		return toggleNotFound, err
	}
	return toggleFull, nil
}
