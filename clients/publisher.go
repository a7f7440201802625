package clients

import (
	"context"
	"encoding/json"

	"github.com/wiliammelo/empoweru/utils/cache"
)

// Queue names consumed by downstream workers
const (
	CertificateQueue = "certificates.issue"
	GreetingsQueue   = "users.greetings"
)

// MessagePublisher pushes messages onto a named queue
type MessagePublisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
}

// RedisQueuePublisher publishes JSON messages to Redis lists. Workers pop
// from the head with BLPOP.
type RedisQueuePublisher struct {
	cache *cache.RedisCache
}

// NewRedisQueuePublisher creates a publisher backed by the shared Redis cache
func NewRedisQueuePublisher(redisCache *cache.RedisCache) *RedisQueuePublisher {
	return &RedisQueuePublisher{cache: redisCache}
}

// Publish encodes the payload as JSON and appends it to the queue
func (p *RedisQueuePublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.cache.RPush(ctx, queue, data)
}

// CertificateMessage is the payload sent to the certificate worker
type CertificateMessage struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Email       string `json:"email"`
	CourseID    uint   `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// GreetingsMessage is the payload sent to the greetings worker on signup
type GreetingsMessage struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
