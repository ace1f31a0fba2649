// Package registry wraps the Bedrock Agent prompt management API. It
// encodes templates through the prompt codec before writing and decodes
// stored text after reading. Transient service failures are propagated to
// the caller; nothing is retried here.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"

	"github.com/gerund/promptctl/internal/log"
	"github.com/gerund/promptctl/internal/prompt"
)

// DefaultVariantName is used when no variant name is configured.
const DefaultVariantName = "variant-001"

// DefaultListLimit caps list results when no limit is given.
const DefaultListLimit = 100

// Error types for registry operations.
var (
	// ErrNoIdentifier is returned when an operation needs a prompt id
	// and none was given, resolved by name, or remembered from a
	// previous call.
	ErrNoIdentifier = errors.New("either a prompt id or a name is required")
	// ErrNotFound is returned when a prompt cannot be located.
	ErrNotFound = errors.New("prompt not found")
)

// API is the slice of the Bedrock Agent client the registry uses.
// It allows substituting a fake in tests.
type API interface {
	CreatePrompt(ctx context.Context, in *bedrockagent.CreatePromptInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreatePromptOutput, error)
	CreatePromptVersion(ctx context.Context, in *bedrockagent.CreatePromptVersionInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreatePromptVersionOutput, error)
	GetPrompt(ctx context.Context, in *bedrockagent.GetPromptInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetPromptOutput, error)
	ListPrompts(ctx context.Context, in *bedrockagent.ListPromptsInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListPromptsOutput, error)
	DeletePrompt(ctx context.Context, in *bedrockagent.DeletePromptInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.DeletePromptOutput, error)
}

// Client manages prompts in the Bedrock Agent registry. It remembers the
// last created or fetched prompt id so follow-up calls can omit it.
type Client struct {
	api          API
	lastPromptID string
}

// New creates a registry client using the default AWS credential chain.
func New(ctx context.Context, region, profile string) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &Client{api: bedrockagent.NewFromConfig(cfg)}, nil
}

// NewWithAPI creates a client around an existing API implementation
// (used by tests).
func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// LastPromptID returns the id of the last created or fetched prompt,
// or "" if none.
func (c *Client) LastPromptID() string {
	return c.lastPromptID
}

// InferenceConfig holds optional model inference settings attached to a
// prompt variant. Nil fields are omitted from the request.
type InferenceConfig struct {
	Temperature   *float32
	TopP          *float32
	MaxTokens     *int32
	StopSequences []string
}

// CreateOptions holds optional settings for CreatePrompt.
type CreateOptions struct {
	VariantName      string
	Description      string
	DefaultVariant   string
	Tags             map[string]string
	ModelID          string
	Inference        *InferenceConfig
	EncryptionKeyARN string
}

// CreateResult identifies a created prompt or prompt version.
type CreateResult struct {
	ID      string
	ARN     string
	Name    string
	Version string
}

// CreatePrompt encodes the template and creates a new prompt with a
// single TEXT variant carrying the flat text and its input variables.
func (c *Client) CreatePrompt(ctx context.Context, tmpl prompt.Template, name string, opts CreateOptions) (*CreateResult, error) {
	text, variables, err := prompt.Encode(tmpl)
	if err != nil {
		return nil, err
	}

	variantName := opts.VariantName
	if variantName == "" {
		variantName = DefaultVariantName
	}

	in := &bedrockagent.CreatePromptInput{
		Name:     aws.String(name),
		Variants: []types.PromptVariant{buildVariant(variantName, text, variables, opts)},
	}
	if opts.DefaultVariant != "" {
		in.DefaultVariant = aws.String(opts.DefaultVariant)
	}
	if opts.Description != "" {
		in.Description = aws.String(opts.Description)
	}
	if len(opts.Tags) > 0 {
		in.Tags = opts.Tags
	}
	if opts.EncryptionKeyARN != "" {
		in.CustomerEncryptionKeyArn = aws.String(opts.EncryptionKeyARN)
	}

	out, err := c.api.CreatePrompt(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}

	c.lastPromptID = aws.ToString(out.Id)
	log.Info("prompt created",
		"id", aws.ToString(out.Id),
		"arn", aws.ToString(out.Arn),
		"name", aws.ToString(out.Name))

	return &CreateResult{
		ID:      aws.ToString(out.Id),
		ARN:     aws.ToString(out.Arn),
		Name:    aws.ToString(out.Name),
		Version: aws.ToString(out.Version),
	}, nil
}

// VersionOptions holds optional settings for CreateVersion.
type VersionOptions struct {
	Description string
	Tags        map[string]string
}

// CreateVersion snapshots the current draft of a prompt as a new
// immutable version. An empty promptID falls back to the last prompt id.
func (c *Client) CreateVersion(ctx context.Context, promptID string, opts VersionOptions) (*CreateResult, error) {
	id, err := c.resolveID(promptID)
	if err != nil {
		return nil, err
	}

	in := &bedrockagent.CreatePromptVersionInput{
		PromptIdentifier: aws.String(id),
	}
	if opts.Description != "" {
		in.Description = aws.String(opts.Description)
	}
	if len(opts.Tags) > 0 {
		in.Tags = opts.Tags
	}

	out, err := c.api.CreatePromptVersion(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt version: %w", err)
	}

	log.Info("prompt version created",
		"id", aws.ToString(out.Id),
		"version", aws.ToString(out.Version),
		"name", aws.ToString(out.Name))

	return &CreateResult{
		ID:      aws.ToString(out.Id),
		ARN:     aws.ToString(out.Arn),
		Name:    aws.ToString(out.Name),
		Version: aws.ToString(out.Version),
	}, nil
}

// GetOptions selects the prompt to fetch. Exactly one of ID or Name is
// normally set; with neither, the last prompt id is used. PlainText
// skips chat decoding and returns the stored text as a plain template
// even when it sniffs as chat.
type GetOptions struct {
	ID        string
	Name      string
	Version   string
	PlainText bool
}

// Prompt is a fetched prompt: the raw stored form plus the decoded
// template.
type Prompt struct {
	ID        string
	ARN       string
	Name      string
	Version   string
	Text      string
	Variables []string
	Template  prompt.Template
}

// Get fetches a prompt by id or by name (resolved through a list
// lookup). Chat-shaped text decodes to a ChatTemplate; everything else
// returns a PlainTemplate paired with the service-declared variables.
func (c *Client) Get(ctx context.Context, opts GetOptions) (*Prompt, error) {
	id := opts.ID
	if id == "" && opts.Name != "" {
		summaries, err := c.List(ctx, ListOptions{Name: opts.Name})
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 {
			return nil, fmt.Errorf("%w: name %q", ErrNotFound, opts.Name)
		}
		id = summaries[0].ID
	}

	id, err := c.resolveID(id)
	if err != nil {
		return nil, err
	}

	in := &bedrockagent.GetPromptInput{
		PromptIdentifier: aws.String(id),
	}
	if opts.Version != "" {
		in.PromptVersion = aws.String(opts.Version)
	}

	out, err := c.api.GetPrompt(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	if len(out.Variants) == 0 {
		return nil, fmt.Errorf("%w: prompt %s has no variants", ErrNotFound, id)
	}

	text, variables := variantText(out.Variants[0])
	p := &Prompt{
		ID:        aws.ToString(out.Id),
		ARN:       aws.ToString(out.Arn),
		Name:      aws.ToString(out.Name),
		Version:   aws.ToString(out.Version),
		Text:      text,
		Variables: variables,
	}

	if prompt.IsChatPrompt(text) && !opts.PlainText {
		p.Template = prompt.ChatTemplate{Messages: prompt.DecodeChat(text)}
	} else {
		p.Template = prompt.PlainTemplate{Template: text, InputVariables: variables}
	}

	c.lastPromptID = aws.ToString(out.Id)
	return p, nil
}

// ListOptions filters List. Name filtering happens client-side after the
// service call.
type ListOptions struct {
	MaxResults       int32
	NextToken        string
	PromptIdentifier string
	Name             string
}

// Summary is one entry of a prompt listing.
type Summary struct {
	ID          string
	Name        string
	ARN         string
	Version     string
	Description string
}

// List returns prompt summaries, optionally filtered by name.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultListLimit
	}

	in := &bedrockagent.ListPromptsInput{
		MaxResults: aws.Int32(maxResults),
	}
	if opts.NextToken != "" {
		in.NextToken = aws.String(opts.NextToken)
	}
	if opts.PromptIdentifier != "" {
		in.PromptIdentifier = aws.String(opts.PromptIdentifier)
	}

	out, err := c.api.ListPrompts(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	var summaries []Summary
	for _, s := range out.PromptSummaries {
		if opts.Name != "" && aws.ToString(s.Name) != opts.Name {
			continue
		}
		summaries = append(summaries, Summary{
			ID:          aws.ToString(s.Id),
			Name:        aws.ToString(s.Name),
			ARN:         aws.ToString(s.Arn),
			Version:     aws.ToString(s.Version),
			Description: aws.ToString(s.Description),
		})
	}
	return summaries, nil
}

// Delete removes a prompt, or a single version of it when version is
// non-empty. An empty promptID falls back to the last prompt id.
// Returns the deleted prompt id.
func (c *Client) Delete(ctx context.Context, promptID, version string) (string, error) {
	id, err := c.resolveID(promptID)
	if err != nil {
		return "", err
	}

	in := &bedrockagent.DeletePromptInput{
		PromptIdentifier: aws.String(id),
	}
	if version != "" {
		in.PromptVersion = aws.String(version)
	}

	if _, err := c.api.DeletePrompt(ctx, in); err != nil {
		return "", fmt.Errorf("failed to delete prompt: %w", err)
	}

	log.Info("prompt deleted", "id", id, "version", version)
	return id, nil
}

// resolveID falls back to the remembered prompt id when none is given.
func (c *Client) resolveID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if c.lastPromptID != "" {
		return c.lastPromptID, nil
	}
	return "", ErrNoIdentifier
}

// buildVariant assembles the TEXT variant carrying the encoded prompt.
func buildVariant(name, text string, variables []string, opts CreateOptions) types.PromptVariant {
	inputVariables := make([]types.PromptInputVariable, 0, len(variables))
	for _, v := range variables {
		inputVariables = append(inputVariables, types.PromptInputVariable{Name: aws.String(v)})
	}

	variant := types.PromptVariant{
		Name:         aws.String(name),
		TemplateType: types.PromptTemplateTypeText,
		TemplateConfiguration: &types.PromptTemplateConfigurationMemberText{
			Value: types.TextPromptTemplateConfiguration{
				Text:           aws.String(text),
				InputVariables: inputVariables,
			},
		},
	}
	if opts.ModelID != "" {
		variant.ModelId = aws.String(opts.ModelID)
	}
	if opts.Inference != nil {
		variant.InferenceConfiguration = &types.PromptInferenceConfigurationMemberText{
			Value: types.PromptModelInferenceConfiguration{
				Temperature:   opts.Inference.Temperature,
				TopP:          opts.Inference.TopP,
				MaxTokens:     opts.Inference.MaxTokens,
				StopSequences: opts.Inference.StopSequences,
			},
		}
	}
	return variant
}

// variantText extracts the stored text and declared variable names from
// a variant's TEXT template configuration.
func variantText(v types.PromptVariant) (string, []string) {
	cfg, ok := v.TemplateConfiguration.(*types.PromptTemplateConfigurationMemberText)
	if !ok {
		return "", nil
	}
	var variables []string
	for _, iv := range cfg.Value.InputVariables {
		variables = append(variables, aws.ToString(iv.Name))
	}
	return aws.ToString(cfg.Value.Text), variables
}
