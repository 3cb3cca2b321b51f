package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"gjinn/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
)

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates a new S3-based store. Each user's wish list and
// settings live as single JSON objects; shared creations sit under a
// common prefix.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return &s3Store{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

// userKey builds the object key for a per-user file, rejecting ids that
// look like paths.
func userKey(userID, name string) (string, error) {
	if path.Base(userID) != userID || userID == "" || userID == "." || userID == ".." {
		return "", fmt.Errorf("invalid user id: must not be a path")
	}
	return path.Join(userID, name), nil
}

func (s *s3Store) getObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (s *s3Store) putObject(ctx context.Context, key string, data []byte) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func isNoSuchKey(err error) bool {
	var nsk *s3types.NoSuchKey
	return errors.As(err, &nsk)
}

func (s *s3Store) LoadWishes(ctx context.Context, userID string) ([]*core.Wish, error) {
	key, err := userKey(userID, "wishes.json")
	if err != nil {
		return nil, err
	}
	data, err := s.getObject(ctx, key)
	if err != nil {
		if isNoSuchKey(err) {
			return []*core.Wish{}, nil
		}
		return nil, fmt.Errorf("failed to load wishes for user %s: %v", userID, err)
	}

	var wishes []*core.Wish
	if err := json.Unmarshal(data, &wishes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wishes: %v", err)
	}
	return wishes, nil
}

func (s *s3Store) SaveWishes(ctx context.Context, userID string, wishes []*core.Wish) error {
	key, err := userKey(userID, "wishes.json")
	if err != nil {
		return err
	}
	data, err := json.Marshal(wishes)
	if err != nil {
		return fmt.Errorf("failed to marshal wishes: %v", err)
	}
	if err := s.putObject(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save wishes for user %s: %v", userID, err)
	}
	return nil
}

func (s *s3Store) LoadSettings(ctx context.Context, userID string) (*core.Settings, error) {
	key, err := userKey(userID, "settings.json")
	if err != nil {
		return nil, err
	}
	data, err := s.getObject(ctx, key)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings for user %s: %v", userID, err)
	}

	var settings core.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %v", err)
	}
	return &settings, nil
}

func (s *s3Store) SaveSettings(ctx context.Context, userID string, settings *core.Settings) error {
	key, err := userKey(userID, "settings.json")
	if err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}
	if err := s.putObject(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save settings for user %s: %v", userID, err)
	}
	return nil
}

func (s *s3Store) PublishShared(ctx context.Context, item *core.SharedCreation) (string, error) {
	id := ulid.Make().String()
	copied := *item
	copied.ID = id
	if copied.SharedAt.IsZero() {
		copied.SharedAt = time.Now()
	}
	data, err := json.Marshal(&copied)
	if err != nil {
		return "", fmt.Errorf("failed to marshal shared creation: %v", err)
	}
	if err := s.putObject(ctx, path.Join("shared", id+".json"), data); err != nil {
		return "", fmt.Errorf("failed to publish creation: %v", err)
	}
	return id, nil
}

func (s *s3Store) FindShared(ctx context.Context, id string) (*core.SharedCreation, error) {
	if path.Base(id) != id || id == "" || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid shared id")
	}
	data, err := s.getObject(ctx, path.Join("shared", id+".json"))
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("shared creation with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get shared creation %s: %v", id, err)
	}

	var item core.SharedCreation
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared creation: %v", err)
	}
	return &item, nil
}
