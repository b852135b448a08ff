package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

const (
	StreamName     = "SOCIAL"
	SubjectPattern = "social.>" // Tous les events social.*
)

type NatsBroker struct {
	js jetstream.JetStream
}

// NewNatsBroker initialise la connexion et s'assure que le Stream existe (Idempotent)
func NewNatsBroker(url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage, // Persistance sur disque
		Replicas: 1,                     // Mettre 3 en cluster
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{js: js}, nil
}

// --- Payloads des événements (contrat implicite avec les consommateurs) ---

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *NatsBroker) PublishUserRegistered(ctx context.Context, userID, email string) error {
	return n.publish(ctx, "social.user.registered", UserRegisteredEvent{
		UserID: userID,
		Email:  email,
	})
}

func (n *NatsBroker) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return n.publish(ctx, "social.post.created", PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.UserID,
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
	})
}

func (n *NatsBroker) PublishPostDeleted(ctx context.Context, postID string) error {
	return n.publish(ctx, "social.post.deleted", map[string]string{"post_id": postID})
}

func (n *NatsBroker) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du trace-id dans les headers NATS : le contexte de la requête
	// HTTP se propage vers les consommateurs du stream.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	// JetStream garantit que le serveur a bien reçu et persisté le message
	if _, err := n.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
