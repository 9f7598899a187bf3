package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
	"swapmarket/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) messageRef(matchID, messageID string) *firestore.DocumentRef {
	return r.client.Collection("matches").Doc(matchID).Collection("messages").Doc(messageID)
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, matchID string, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.messageRef(matchID, message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetMessage(ctx context.Context, matchID, messageID string) (*entity.Message, error) {
	doc, err := r.messageRef(matchID, messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Malformed message document", err)
	}
	message.ID = doc.Ref.ID

	return &message, nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("matches").Doc(matchID).Collection("messages").OrderBy("createdAt", firestore.Asc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Malformed message document", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, total, nil
}

// RejectProposal flips the embedded proposal to REJECTED, conditioned on it
// still being pending when the transaction commits.
func (r *firestoreChatRepository) RejectProposal(ctx context.Context, matchID, messageID string) error {
	msgRef := r.messageRef(matchID, messageID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(msgRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Message", err)
			}
			return err
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return errors.Internal("Malformed message document", err)
		}
		if message.Proposal == nil {
			return errors.BadRequest("Message carries no proposal", nil)
		}
		if message.Proposal.Status != entity.ProposalPending {
			return errors.Conflict("Proposal already resolved")
		}

		return tx.Update(msgRef, []firestore.Update{
			{Path: "proposal.status", Value: entity.ProposalRejected},
		})
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.Internal("Failed to reject proposal", err)
	}

	return nil
}

func (r *firestoreChatRepository) WatchMessages(ctx context.Context, matchID string) (<-chan []*entity.Message, error) {
	query := r.client.Collection("matches").Doc(matchID).Collection("messages").OrderBy("createdAt", firestore.Asc)
	snapshots := query.Snapshots(ctx)

	ch := make(chan []*entity.Message)
	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Message watch for match %s ended: %v", matchID, err)
				}
				return
			}

			var messages []*entity.Message
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					logger.Warn("Message watch iteration failed: %v", err)
					return
				}
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping malformed message %s: %v", doc.Ref.ID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			select {
			case ch <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
