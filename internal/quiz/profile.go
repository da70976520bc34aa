package quiz

import (
	"slices"

	"github.com/gokatarajesh/certquiz/internal/question"
)

// Built-in quiz profile identifiers.
const (
	ProfileAIPractitioner     = "ai-practitioner"
	ProfileSolutionsArchitect = "solutions-architect"
)

// DefaultProfileID is used when a request names no profile or an unknown one.
const DefaultProfileID = ProfileAIPractitioner

// Profile is a named topic configuration substituted into prompt templates.
type Profile struct {
	ID          string
	Title       string
	ExamName    string
	Description string

	// Domain and Services fill the "Focus on ..." prompt line.
	Domain   string
	Services []string
	// Highlights is the short service list shown in catalogues.
	Highlights []string
	Focus      []string

	DifficultyLabel string
	// PassingScore is the advertised exam cut score. Grading uses Rules.PassPercent.
	PassingScore string

	Fallback question.Question
}

var profiles = []Profile{
	{
		ID:          ProfileAIPractitioner,
		Title:       "AWS AI Practitioner",
		ExamName:    "AWS AI Practitioner",
		Description: "Test your knowledge of AWS AI/ML services, responsible AI practices, and AI governance.",
		Domain:      "AWS AI/ML services",
		Services: []string{
			"Amazon Bedrock", "SageMaker", "Comprehend", "Rekognition", "Polly",
			"Transcribe", "Translate", "Textract", "Lex", "Kendra", "Personalize",
			"Forecast", "CodeWhisperer", "Q Business",
		},
		Highlights: []string{"Amazon Bedrock", "SageMaker", "Comprehend", "Rekognition", "Lex", "Textract"},
		Focus: []string{
			"Include AWS AI governance, ethics, responsible AI practices",
			"Cover AI/ML model deployment, monitoring, and lifecycle management",
			"Include cost optimization and security best practices for AI workloads",
		},
		DifficultyLabel: "Beginner to Intermediate",
		PassingScore:    "70%",
		Fallback: question.Question{
			Question: "Which AWS service is designed to help developers build conversational interfaces using voice and text?",
			Options: []string{
				"A) Amazon Comprehend",
				"B) Amazon Lex",
				"C) Amazon Polly",
				"D) Amazon Transcribe",
			},
			CorrectAnswer: "B",
		},
	},
	{
		ID:          ProfileSolutionsArchitect,
		Title:       "AWS Solutions Architect Associate",
		ExamName:    "AWS Solutions Architect Associate",
		Description: "Test your knowledge of AWS core services, architectural best practices, and cloud solutions.",
		Domain:      "AWS core services",
		Services: []string{
			"EC2", "S3", "VPC", "RDS", "Lambda", "CloudFormation", "IAM",
			"DynamoDB", "CloudFront", "Route 53", "Elastic Load Balancing",
			"Auto Scaling", "SQS", "SNS",
		},
		Highlights: []string{"EC2", "S3", "VPC", "RDS", "Lambda", "CloudFormation"},
		Focus: []string{
			"Cover resilient and highly available architecture design",
			"Include security controls such as IAM policies, encryption and network isolation",
			"Include performance and cost optimization trade-offs",
		},
		DifficultyLabel: "Intermediate",
		PassingScore:    "72%",
		Fallback: question.Question{
			Question: "A company needs a managed relational database with automated backups and Multi-AZ failover. Which AWS service should it use?",
			Options: []string{
				"A) Amazon DynamoDB",
				"B) Amazon ElastiCache",
				"C) Amazon RDS",
				"D) Amazon S3 Glacier",
			},
			CorrectAnswer: "C",
		},
	},
}

// LookupProfile returns the profile with the given id. Unknown or empty ids
// resolve to the default profile.
func LookupProfile(id string) Profile {
	for _, p := range profiles {
		if p.ID == id {
			return p.clone()
		}
	}
	return profiles[0].clone()
}

// Profiles lists the built-in profiles in catalogue order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.clone()
	}
	return out
}

// clone copies the slices so callers cannot reach the built-in tables.
func (p Profile) clone() Profile {
	p.Services = slices.Clone(p.Services)
	p.Highlights = slices.Clone(p.Highlights)
	p.Focus = slices.Clone(p.Focus)
	p.Fallback.Options = slices.Clone(p.Fallback.Options)
	return p
}
