package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/utils"
)

type apiGatewayAPI interface {
	GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
	GetStages(ctx context.Context, params *apigateway.GetStagesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStagesOutput, error)
}

// APIGatewayClient reads REST API stages and their logging settings
type APIGatewayClient struct {
	client apiGatewayAPI
}

// NewAPIGatewayClient creates a new APIGatewayClient
func NewAPIGatewayClient(cfg aws.Config) *APIGatewayClient {
	return &APIGatewayClient{client: apigateway.NewFromConfig(cfg)}
}

// ExecutionLogGroup is the log group API Gateway writes execution logs of a stage to
func ExecutionLogGroup(apiID, stage string) string {
	return fmt.Sprintf("API-Gateway-Execution-Logs_%s/%s", apiID, stage)
}

// GetStageLogGroups returns every REST API stage with the names of its
// execution and access log groups. Usage figures are left at zero. APIs whose
// stages cannot be read are skipped.
func (c *APIGatewayClient) GetStageLogGroups(ctx context.Context) ([]models.APIGatewayStageUsage, error) {
	paginator := apigateway.NewGetRestApisPaginator(c.client, &apigateway.GetRestApisInput{})

	var stages []models.APIGatewayStageUsage
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting REST APIs: %w", err)
		}

		for _, api := range page.Items {
			apiID := aws.ToString(api.Id)
			apiName := aws.ToString(api.Name)

			out, err := c.client.GetStages(ctx, &apigateway.GetStagesInput{RestApiId: api.Id})
			if err != nil {
				log.Warn().Err(err).Str("rest_api", apiName).Msg("skipping REST API, stages unavailable")
				continue
			}

			for _, stage := range out.Item {
				stageName := aws.ToString(stage.StageName)
				usage := models.APIGatewayStageUsage{
					APIName:           apiName,
					Stage:             stageName,
					ExecutionLogGroup: ExecutionLogGroup(apiID, stageName),
				}
				if stage.AccessLogSettings != nil {
					if arn := aws.ToString(stage.AccessLogSettings.DestinationArn); arn != "" {
						usage.AccessLogGroup = utils.LastSegment(arn, ':')
					}
				}
				stages = append(stages, usage)
			}
		}
	}
	return stages, nil
}
