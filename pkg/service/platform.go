package service

import (
	"context"
	"fmt"

	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclient/fulfillment"
	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclientmodels"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclient/user_statistic"
)

// Stat codes owned by the skill-assessment pipeline. This service only ever
// reads them.
const (
	StatCodeAttentionEfficiency  = "cg-ae"
	StatCodeReactiveAccuracy     = "cg-ra"
	StatCodeCriticalThinking     = "cg-ct"
	StatCodeInferentialReasoning = "cg-in"
	StatCodeSharpness            = "cg-sharpness"
	StatCodeReadiness            = "cg-readiness"
)

type EntitlementService struct {
	fulfillmentClient *platform.FulfillmentService
	cfg               EntitlementServiceConfig
}

type EntitlementServiceConfig struct {
	Namespace string
}

func NewEntitlementService(
	fulfillmentClient *platform.FulfillmentService,
	cfg EntitlementServiceConfig,
) *EntitlementService {
	return &EntitlementService{
		fulfillmentClient: fulfillmentClient,
		cfg:               cfg,
	}
}

func (s *EntitlementService) GrantEntitlement(
	ctx context.Context,
	userID string,
	itemID string,
	quantity int,
) error {
	qnty := int32(quantity)

	namespace := s.cfg.Namespace
	fulfillmentService := s.fulfillmentClient

	input := &fulfillment.FulfillItemParams{
		Namespace: namespace,
		UserID:    userID,
		Body: &platformclientmodels.FulfillmentRequest{
			ItemID:   itemID,
			Quantity: &qnty,
			Source:   platformclientmodels.FulfillmentRequestSourceREWARD,
		},
	}

	fulfillmentResponse, err := fulfillmentService.FulfillItemShort(input)

	if err != nil {
		return fmt.Errorf("failed to fulfill item: %w", err)
	}

	if fulfillmentResponse == nil {
		return fmt.Errorf("could not grant item to user: empty response")
	}

	return nil
}

// CognitiveStatsService reads the cognitive metric stat items from AGS
// Statistics. It implements SkillStatsProvider.
type CognitiveStatsService struct {
	statisticsService *social.UserStatisticService
	cfg               CognitiveStatsServiceConfig
}

type CognitiveStatsServiceConfig struct {
	Namespace string
}

func NewCognitiveStatsService(
	statisticsService *social.UserStatisticService,
	cfg CognitiveStatsServiceConfig,
) *CognitiveStatsService {
	return &CognitiveStatsService{
		statisticsService: statisticsService,
		cfg:               cfg,
	}
}

// FetchMetricSnapshot reads all six cognitive stat codes for a user in one
// call. A missing stat item is an error: callers must treat the metrics as
// unavailable rather than score against a fabricated value.
func (s *CognitiveStatsService) FetchMetricSnapshot(ctx context.Context, userID string) (*MetricSnapshot, error) {
	statCodes := StatCodeAttentionEfficiency + "," +
		StatCodeReactiveAccuracy + "," +
		StatCodeCriticalThinking + "," +
		StatCodeInferentialReasoning + "," +
		StatCodeSharpness + "," +
		StatCodeReadiness

	input := &user_statistic.GetUserStatItemsParams{
		Namespace: s.cfg.Namespace,
		UserID:    userID,
		StatCodes: &statCodes,
	}

	stats, err := s.statisticsService.GetUserStatItemsShort(input)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cognitive stats for user %s: %w", userID, err)
	}
	if stats == nil || stats.Data == nil {
		return nil, fmt.Errorf("failed to fetch cognitive stats for user %s: empty response", userID)
	}

	values := make(map[string]float64, len(stats.Data))
	for _, stat := range stats.Data {
		if stat.StatCode == nil || stat.Value == nil {
			continue
		}
		values[*stat.StatCode] = *stat.Value
	}

	snapshot := &MetricSnapshot{}
	fields := []struct {
		code string
		dst  *float64
	}{
		{StatCodeAttentionEfficiency, &snapshot.States.AE},
		{StatCodeReactiveAccuracy, &snapshot.States.RA},
		{StatCodeCriticalThinking, &snapshot.States.CT},
		{StatCodeInferentialReasoning, &snapshot.States.IN},
		{StatCodeSharpness, &snapshot.Sharpness},
		{StatCodeReadiness, &snapshot.Readiness},
	}
	for _, field := range fields {
		value, ok := values[field.code]
		if !ok {
			return nil, fmt.Errorf("cognitive stat %s missing for user %s", field.code, userID)
		}
		*field.dst = value
	}

	return snapshot, nil
}
