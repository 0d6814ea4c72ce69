package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/repository"
)

type catalogClient interface {
	ListBranches(ctx context.Context, token string) ([]Branch, error)
	GetProduct(ctx context.Context, token string, productID int64) (*Product, error)
}

type systemMessageCreator interface {
	Create(ctx context.Context, input repository.CreateMessageInput) (*models.Message, error)
}

// AutoReplyService injects system-authored answers for branch-address and
// product questions. It is strictly best effort: every failure is logged
// and swallowed so the message that triggered it is never affected.
type AutoReplyService struct {
	catalog     catalogClient
	messageRepo systemMessageCreator
	hub         messageBroadcaster
}

func NewAutoReplyService(
	catalog catalogClient,
	messageRepo systemMessageCreator,
	hub messageBroadcaster,
) *AutoReplyService {
	return &AutoReplyService{
		catalog:     catalog,
		messageRepo: messageRepo,
		hub:         hub,
	}
}

type AutoReplyRequest struct {
	BranchAddress bool
	ProductQuery  bool
	ProductID     int64
	Token         string
}

func (s *AutoReplyService) Dispatch(ctx context.Context, conversation *models.Conversation, req AutoReplyRequest) {
	body, err := s.compose(ctx, req)
	if err != nil {
		log.Printf("auto reply for conversation %d: %v", conversation.ID, err)
		return
	}
	if body == "" {
		return
	}

	message, err := s.messageRepo.Create(ctx, repository.CreateMessageInput{
		ConversationID: conversation.ID,
		ContentType:    models.ContentTypeText,
		Body:           body,
		Markdown:       true,
	})
	if err != nil {
		log.Printf("auto reply for conversation %d: save message: %v", conversation.ID, err)
		return
	}

	s.hub.BroadcastMessage(message, conversation.CustomerID)
}

func (s *AutoReplyService) compose(ctx context.Context, req AutoReplyRequest) (string, error) {
	switch {
	case req.BranchAddress:
		branches, err := s.catalog.ListBranches(ctx, req.Token)
		if err != nil {
			return "", err
		}
		if len(branches) == 0 {
			return "", fmt.Errorf("no branches returned")
		}
		return formatBranches(branches), nil
	case req.ProductQuery:
		if req.ProductID <= 0 {
			return "", fmt.Errorf("product query without product id")
		}
		product, err := s.catalog.GetProduct(ctx, req.Token, req.ProductID)
		if err != nil {
			return "", err
		}
		if product == nil {
			return "", fmt.Errorf("product %d not found", req.ProductID)
		}
		return formatProduct(product), nil
	default:
		return "", nil
	}
}

func formatBranches(branches []Branch) string {
	var b strings.Builder
	b.WriteString("**Our branches**\n")
	for _, branch := range branches {
		b.WriteString("- **")
		b.WriteString(branch.Name)
		b.WriteString("**: ")
		b.WriteString(branch.Address)
		if branch.PhoneNumber != "" {
			b.WriteString(" (")
			b.WriteString(branch.PhoneNumber)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatProduct(product *Product) string {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(product.Name)
	b.WriteString("**\n")
	fmt.Fprintf(&b, "Price: %.2f", product.Price)
	if product.Unit != "" {
		b.WriteString("/")
		b.WriteString(product.Unit)
	}
	if product.Description != "" {
		b.WriteString("\n")
		b.WriteString(product.Description)
	}
	return b.String()
}
