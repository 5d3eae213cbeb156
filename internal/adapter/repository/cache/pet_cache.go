package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

const petTTL = 1 * time.Hour

// PetCache keeps recently viewed listings in Redis. A miss is (nil, nil).
type PetCache struct {
	client *redis.Client
}

func NewPetCache(addr string) (*PetCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &PetCache{client: client}, nil
}

func (c *PetCache) GetPet(ctx context.Context, id string) (*domain.Pet, error) {
	data, err := c.client.Get(ctx, "pet:"+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pet domain.Pet
	if err := json.Unmarshal(data, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (c *PetCache) SetPet(ctx context.Context, pet *domain.Pet) error {
	data, err := json.Marshal(pet)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "pet:"+pet.ID, data, petTTL).Err()
}

func (c *PetCache) DeletePet(ctx context.Context, id string) error {
	return c.client.Del(ctx, "pet:"+id).Err()
}

func (c *PetCache) Close() error {
	return c.client.Close()
}
