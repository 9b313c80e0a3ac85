package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

const askIdentityFallback = "Before I can help, please share your customer ID, email address or phone number."

type VerifyDeps struct {
	Extractor contractx.Extractor[contractx.IdentifierOutput]
	Verifier  contractx.Decider
	Customers CustomerLookup
}

func VerifyConfirmation(customerID int) string {
	return fmt.Sprintf("Thank you for providing your information! I was able to verify your account with customer id %d.", customerID)
}

// VerifyCustomer resolves the caller's identity from the latest user
// message. It does nothing when a customer id is already known; otherwise it
// either records the id or appends a request for identity.
func VerifyCustomer(ctx context.Context, in *GraphState, deps VerifyDeps) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Conv.Verified() {
		return in, nil
	}

	identifier := ""
	if latest := in.Conv.LatestUserMessage(); latest != nil {
		out, err := deps.Extractor.Extract(ctx, latest.Content)
		if err != nil {
			return nil, fmt.Errorf("extract identifier: %w", err)
		}
		identifier = strings.TrimSpace(out.Identifier)
	}

	customerID, err := ResolveCustomer(ctx, deps.Customers, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	if customerID != nil {
		if err := in.Conv.SetCustomerID(*customerID); err != nil {
			return nil, err
		}
		in.Conv.Append(schema.AssistantMessage(VerifyConfirmation(*customerID), nil))
		log.Info().
			Str("thread_id", in.ThreadID).
			Int("customer_id", *customerID).
			Str("identifier_kind", ClassifyIdentifier(identifier).String()).
			Msg("customer verified")
		return in, nil
	}

	reply, err := deps.Verifier.Decide(ctx, nil, in.Conv.Messages)
	if err != nil {
		return nil, fmt.Errorf("ask for identity: %w", err)
	}
	text := strings.TrimSpace(reply.Content)
	if text == "" {
		text = askIdentityFallback
	}
	in.Conv.Append(schema.AssistantMessage(text, nil))
	log.Info().
		Str("thread_id", in.ThreadID).
		Str("identifier_kind", ClassifyIdentifier(identifier).String()).
		Msg("customer not verified")
	return in, nil
}

// RouteAfterVerify picks the next node: memory loading for a verified
// customer, human input otherwise.
func RouteAfterVerify(in *GraphState) (string, error) {
	if in == nil || in.Conv == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Conv.Verified() {
		return NodeLoadMemory, nil
	}
	return NodeHumanInput, nil
}
