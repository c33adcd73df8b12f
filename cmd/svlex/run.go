package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bububa/svlex/config"
	"github.com/bububa/svlex/lexer"
	"github.com/bububa/svlex/lexer/splitter"
	"github.com/bububa/svlex/source"
	"github.com/bububa/svlex/stack"
)

// Result is what svlex reports for one source.
type Result struct {
	Source string            `json:"source" yaml:"source"`
	Meta   map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
	Tokens []Token           `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Chunks []splitter.Chunk  `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// Token is a located token with its stable ID.
type Token struct {
	ID            string `json:"id" yaml:"id"`
	lexer.Located `yaml:",inline"`
}

func newTokens(located []lexer.Located) []Token {
	ret := make([]Token, len(located))
	for i, tok := range located {
		ret[i] = Token{ID: tok.ID(), Located: tok}
	}
	return ret
}

func execute(ctx context.Context, cfg *config.Config, f *flags, args []string, w io.Writer, logger *zap.Logger) error {
	sources, err := resolveSources(ctx, cfg, args)
	if err != nil {
		return err
	}

	opts := []lexer.Option{
		lexer.WithSeparator(cfg.SeparatorRune()),
		lexer.WithWorkers(cfg.Workers),
		lexer.WithLogger(logger),
	}
	if cfg.Mode == "whitespace" {
		opts = append(opts, lexer.WithWhitespace())
	}
	lx := lexer.New(opts...)

	var located [][]lexer.Located
	switch cfg.Mode {
	case "delim", "whitespace":
		openers := make([]lexer.Opener, len(sources))
		for idx, src := range sources {
			openers[idx] = src
		}
		if located, err = lx.LexSources(ctx, openers...); err != nil {
			return err
		}
	default:
		if f.sim {
			return fmt.Errorf("%w: -sim needs mode delim or whitespace", errUsage)
		}
		segmenter, err := splitter.NewSegmenter(cfg.Mode, lx)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if located, err = segmentSources(ctx, segmenter, sources); err != nil {
			return err
		}
	}
	logger.Debug("lexed", zap.Int("sources", len(sources)), zap.Stringer("stats", lx.Stats()))

	if f.sim {
		return simulate(ctx, located, w)
	}

	results := make([]Result, len(sources))
	for idx, src := range sources {
		results[idx] = Result{
			Source: src.Name(),
			Meta:   src.Meta(),
			Tokens: newTokens(located[idx]),
		}
	}
	if cfg.Chunk.Size > 0 {
		if err := chunkResults(cfg, results); err != nil {
			return err
		}
	}
	return write(w, cfg.Format, f.loc, results)
}

func resolveSources(ctx context.Context, cfg *config.Config, args []string) ([]source.Source, error) {
	if len(args) == 0 {
		return []source.Source{source.NewText("<demo>", demoText)}, nil
	}
	var opts []source.ResolverOption
	for _, arg := range args {
		if strings.HasPrefix(arg, "s3://") {
			clt, err := newS3Client(ctx, cfg.S3.Region)
			if err != nil {
				return nil, err
			}
			opts = append(opts, source.WithResolverS3Client(clt))
			break
		}
	}
	resolver := source.NewResolver(opts...)
	ret := make([]source.Source, 0, len(args))
	for _, arg := range args {
		src, err := resolver.Resolve(arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, source.Checked(src))
	}
	return ret, nil
}

func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func segmentSources(ctx context.Context, segmenter splitter.Segmenter, sources []source.Source) ([][]lexer.Located, error) {
	ret := make([][]lexer.Located, len(sources))
	for idx, src := range sources {
		text, err := readText(ctx, src)
		if err != nil {
			return nil, err
		}
		tokens := segmenter.Segment(text)
		located := make([]lexer.Located, len(tokens))
		for i, tok := range tokens {
			located[i] = lexer.Located{Token: tok, Location: lexer.Locate(src.Name(), text, tok.Offset)}
		}
		ret[idx] = located
	}
	return ret, nil
}

func readText(ctx context.Context, src source.Source) (string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()
	bs, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	return string(bs), nil
}

func chunkResults(cfg *config.Config, results []Result) error {
	counter, err := splitter.NewTokenCounter(cfg.Chunk.Counter, cfg.Chunk.Encoding)
	if err != nil {
		return err
	}
	s, err := splitter.New(
		splitter.WithChunkSize(cfg.Chunk.Size),
		splitter.WithOverlap(cfg.Chunk.Overlap),
		splitter.WithTokenCounter(counter),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	for idx := range results {
		tokens := make([]lexer.Token, len(results[idx].Tokens))
		for i, tok := range results[idx].Tokens {
			tokens[i] = tok.Token
		}
		results[idx].Chunks = s.Chunk(tokens)
	}
	return nil
}

func simulate(ctx context.Context, located [][]lexer.Located, w io.Writer) error {
	for _, tokens := range located {
		ops, err := stack.Parse(tokens)
		if err != nil {
			return err
		}
		if err := stack.Simulate(ctx, ops, w); err != nil {
			return err
		}
	}
	return nil
}

func write(w io.Writer, format string, loc bool, results []Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, res := range results {
		if len(res.Chunks) > 0 {
			for _, c := range res.Chunks {
				if _, err := fmt.Fprintf(w, "Chunk: %s (%d)\n", c.Text, c.Offset); err != nil {
					return err
				}
			}
			continue
		}
		if !loc {
			tokens := make([]lexer.Token, len(res.Tokens))
			for i, tok := range res.Tokens {
				tokens[i] = tok.Token
			}
			if err := lexer.Report(w, tokens); err != nil {
				return err
			}
			continue
		}
		for _, tok := range res.Tokens {
			if _, err := fmt.Fprintln(w, tok); err != nil {
				return err
			}
		}
	}
	return nil
}
