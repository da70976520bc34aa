package llm

import (
	"context"
	"sync/atomic"
)

// DemoProvider answers offline with plausible output for each call purpose.
// It backs LLM_PROVIDER=mock so the service and CLI run without credentials.
type DemoProvider struct {
	n atomic.Int64
}

// NewDemoProvider creates a DemoProvider.
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

var demoQuestions = []string{
	`{"question":"Which AWS service converts text into lifelike speech?","options":["A) Amazon Polly","B) Amazon Transcribe","C) Amazon Translate","D) Amazon Lex"],"correctAnswer":"A"}`,
	`{"question":"Which service extracts printed text and tables from scanned documents?","options":["A) Amazon Rekognition","B) Amazon Comprehend","C) Amazon Textract","D) Amazon Kendra"],"correctAnswer":"C"}`,
	`{"question":"Which service provides API access to foundation models from multiple providers?","options":["A) Amazon SageMaker","B) Amazon Bedrock","C) Amazon Personalize","D) Amazon Forecast"],"correctAnswer":"B"}`,
	`{"question":"Which service detects sentiment and key phrases in text?","options":["A) Amazon Lex","B) Amazon Polly","C) Amazon Kendra","D) Amazon Comprehend"],"correctAnswer":"D"}`,
}

func (d *DemoProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}

	var text string
	switch PurposeFrom(ctx) {
	case PurposeExplanation:
		text = "The chosen option serves a different purpose. Review what each service does and match the task to the service built for it."
	case PurposeGrading:
		text = "INCORRECT"
	default:
		i := d.n.Add(1) - 1
		text = demoQuestions[int(i)%len(demoQuestions)]
	}

	return &Response{
		Text:       text,
		Usage:      Usage{InputTokens: len(req.Prompt) / 4, OutputTokens: len(text) / 4},
		Model:      d.ModelID(),
		StopReason: "end",
	}, nil
}

func (d *DemoProvider) ModelID() string {
	return "demo"
}
