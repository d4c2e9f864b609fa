package mongodb

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type profileFacet struct {
	List  []publicProfileDocument `bson:"list"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// listEdgeProfiles joins the edges matching match to the user referenced by
// userField and pages over their public profiles, newest edge first.
// Soft-deleted users are left out and the keyword applies to the joined user.
func listEdgeProfiles(ctx context.Context, edges *mongo.Collection, match bson.M, userField string, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	req = req.Normalize()

	userMatch := bson.M{"user.is_deleted": false}
	if or := keywordFilter(req.Keyword, "user.", "first_name", "last_name", "username", "email", "phone_number"); or != nil {
		userMatch["$or"] = or
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   userField,
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$match", Value: userMatch}},
		{{Key: "$facet", Value: bson.M{
			"list": bson.A{
				bson.M{"$skip": req.Skip()},
				bson.M{"$limit": req.Take},
				bson.M{"$replaceRoot": bson.M{"newRoot": "$user"}},
				bson.M{"$project": publicProjection},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	}

	cursor, err := edges.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []profileFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	if len(facets) == 0 {
		return []domain.PublicProfile{}, 0, nil
	}

	profiles := make([]domain.PublicProfile, len(facets[0].List))
	for i, d := range facets[0].List {
		profiles[i] = d.toDomain()
	}
	var total int64
	if len(facets[0].Total) > 0 {
		total = facets[0].Total[0].Count
	}
	return profiles, total, nil
}

func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return n > 0, nil
}
