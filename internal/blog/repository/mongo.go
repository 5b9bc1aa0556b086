package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
)

// MongoPostRepo stores posts in a MongoDB collection. Ids are ObjectID hex
// strings kept in _id so memory and Mongo repos hand out the same id shape.
type MongoPostRepo struct {
	col *mongo.Collection
}

func NewMongoPostRepo(col *mongo.Collection) *MongoPostRepo {
	return &MongoPostRepo{col: col}
}

func (m *MongoPostRepo) Create(ctx context.Context, p *blog.Post) error {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	// $addToSet fails on a null field, so the set always starts as an empty array
	if p.Likes == nil {
		p.Likes = []string{}
	}
	_, err := m.col.InsertOne(ctx, p)
	return err
}

func (m *MongoPostRepo) Get(ctx context.Context, id string) (*blog.Post, error) {
	var p blog.Post
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoPostRepo) Find(ctx context.Context, q blog.PostQuery, order blog.SortOrder, skip, limit int64) ([]*blog.Post, error) {
	opts := options.Find().SetSort(postSort(order)).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := m.col.Find(ctx, postFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*blog.Post{}
	for cur.Next(ctx) {
		var p blog.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoPostRepo) Count(ctx context.Context, q blog.PostQuery) (int64, error) {
	return m.col.CountDocuments(ctx, postFilter(q))
}

func (m *MongoPostRepo) Update(ctx context.Context, id string, ch PostChanges) (*blog.Post, error) {
	return m.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":     ch.Title,
		"content":   ch.Content,
		"image":     ch.Image,
		"updatedAt": time.Now().UTC(),
	}})
}

func (m *MongoPostRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// toggleAttempts bounds the add/pull pair when concurrent toggles keep
// flipping the set between the two conditional writes.
const toggleAttempts = 3

// ToggleLike adds userID to the like set only if absent, else pulls it only
// if present. Each write is conditional on the current membership.
func (m *MongoPostRepo) ToggleLike(ctx context.Context, postID, userID string) (*blog.Post, error) {
	for i := 0; i < toggleAttempts; i++ {
		p, err := m.findOneAndUpdate(ctx, bson.M{"_id": postID, "likes": bson.M{"$ne": userID}}, likeUpdate("$addToSet", userID))
		if !errors.Is(err, ErrNotFound) {
			return p, err
		}
		p, err = m.findOneAndUpdate(ctx, bson.M{"_id": postID, "likes": userID}, likeUpdate("$pull", userID))
		if !errors.Is(err, ErrNotFound) {
			return p, err
		}
		// neither write matched: the post is gone or the set flipped in between
		if _, err := m.Get(ctx, postID); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("toggle like on post %s: set kept changing after %d attempts", postID, toggleAttempts)
}

func (m *MongoPostRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*blog.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p blog.Post
	if err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// postFilter translates a PostQuery into a Mongo filter. Search is escaped
// so user input is always matched literally.
func postFilter(q blog.PostQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": rx}},
			bson.M{"content": bson.M{"$regex": rx}},
		}
	}
	if q.AuthorID != "" {
		filter["author"] = q.AuthorID
	}
	return filter
}

func postSort(order blog.SortOrder) bson.D {
	dir := -1
	if order == blog.SortOldest {
		dir = 1
	}
	return bson.D{{Key: "createdAt", Value: dir}, {Key: "_id", Value: dir}}
}

func likeUpdate(op, userID string) bson.M {
	return bson.M{
		op:     bson.M{"likes": userID},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
}

// MongoCommentRepo stores comments in a MongoDB collection.
type MongoCommentRepo struct {
	col *mongo.Collection
}

func NewMongoCommentRepo(col *mongo.Collection) *MongoCommentRepo {
	return &MongoCommentRepo{col: col}
}

func (m *MongoCommentRepo) Create(ctx context.Context, c *blog.Comment) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	_, err := m.col.InsertOne(ctx, c)
	return err
}

func (m *MongoCommentRepo) FindByPost(ctx context.Context, postID string) ([]*blog.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*blog.Comment{}
	for cur.Next(ctx) {
		var c blog.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (m *MongoCommentRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
