package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/questions"
	"github.com/abhisek/pagequiz/internal/shop"
)

// ConfigFile is the JSON document read by `pagequiz config import` and
// written by `pagequiz config export`. Every section is optional; absent
// sections are left untouched on import.
type ConfigFile struct {
	Levels          []progression.LevelDefinition    `json:"levels,omitempty"`
	QuestionRewards []progression.QuestionRewardRule `json:"question_rewards,omitempty"`
	Rules           *progression.GameRules           `json:"rules,omitempty"`
	Catalog         []CatalogRow                     `json:"question_catalog,omitempty"`
	Items           []shop.Item                      `json:"store_items,omitempty"`
}

// CatalogRow is a catalog entry as written in a config file.
type CatalogRow struct {
	ID            string `json:"id"`
	LevelRequired int    `json:"level_required"`
}

const configSchemaURL = "schema://pagequiz-config.json"

const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "levels": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["level", "title", "xp_required"],
        "additionalProperties": false,
        "properties": {
          "level": {"type": "integer", "minimum": 1},
          "title": {"type": "string", "minLength": 1},
          "xp_required": {"type": "integer", "minimum": 0},
          "diamonds_reward": {"type": "integer", "minimum": 0}
        }
      }
    },
    "question_rewards": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["level", "questions_to_add"],
        "additionalProperties": false,
        "properties": {
          "level": {"type": "integer", "minimum": 1},
          "questions_to_add": {"type": "integer", "minimum": 0},
          "is_cumulative": {"type": "boolean"}
        }
      }
    },
    "rules": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "xp_per_correct_answer": {"type": "integer", "minimum": 0},
        "xp_bonus_all_correct": {"type": "integer", "minimum": 0},
        "diamonds_bonus_all_correct": {"type": "integer", "minimum": 0},
        "daily_quizzes_goal": {"type": "integer", "minimum": 0},
        "daily_quizzes_bonus_xp": {"type": "integer", "minimum": 0}
      }
    },
    "question_catalog": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "level_required"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "level_required": {"type": "integer", "minimum": 1}
        }
      }
    },
    "store_items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "price", "type"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "price": {"type": "integer", "minimum": 0},
          "type": {"enum": ["page", "reciter", "cosmetic"]},
          "value": {"type": "string"},
          "sort_order": {"type": "integer"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configFileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(configSchema)))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(configSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(configSchemaURL)
	})
	return compiledSchema, schemaErr
}

// ParseConfigFile validates raw against the config schema and the domain
// rules, then decodes it.
func ParseConfigFile(raw []byte) (*ConfigFile, error) {
	sch, err := configFileSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f ConfigFile
	if err := sonic.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if len(f.Levels) > 0 {
		cfg := progression.Config{Levels: f.Levels, QuestionRewards: f.QuestionRewards}
		if err := progression.Validate(cfg); err != nil {
			return nil, err
		}
	}
	for _, row := range f.Catalog {
		if _, ok := questions.ParseKind(row.ID); !ok {
			return nil, fmt.Errorf("unknown question kind %q", row.ID)
		}
	}
	for _, it := range f.Items {
		if err := shop.Validate(it); err != nil {
			return nil, fmt.Errorf("store item %q: %w", it.ID, err)
		}
	}
	return &f, nil
}

// ImportConfig writes every present section of f in one transaction.
// Progression sections are merged with the stored configuration so a file
// carrying only rules keeps the level table.
func (s *Store) ImportConfig(ctx context.Context, f *ConfigFile) error {
	current, err := s.FetchProgressionConfig(ctx)
	if err != nil {
		return err
	}
	var cfg progression.Config
	if current != nil {
		cfg = *current
	}
	touchProgression := false
	if f.Levels != nil {
		cfg.Levels = f.Levels
		touchProgression = true
	}
	if f.QuestionRewards != nil {
		cfg.QuestionRewards = f.QuestionRewards
		touchProgression = true
	}
	if f.Rules != nil {
		cfg.Rules = *f.Rules
		touchProgression = true
	}
	if touchProgression {
		if err := progression.Validate(cfg); err != nil {
			return err
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if touchProgression {
			if err := saveProgression(ctx, tx, cfg); err != nil {
				return err
			}
		}
		if f.Catalog != nil {
			entries := make([]questions.CatalogEntry, 0, len(f.Catalog))
			for _, row := range f.Catalog {
				kind, _ := questions.ParseKind(row.ID)
				entries = append(entries, questions.CatalogEntry{Kind: kind, LevelRequired: row.LevelRequired})
			}
			if err := saveCatalog(ctx, tx, entries); err != nil {
				return err
			}
		}
		for _, it := range f.Items {
			if err := upsertItem(ctx, tx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportConfig returns the stored configuration as a ConfigFile. Missing
// progression data is exported as the seed configuration.
func (s *Store) ExportConfig(ctx context.Context) (*ConfigFile, error) {
	cfg, err := s.FetchProgressionConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		seed := progression.SeedConfig()
		cfg = &seed
	}
	catalog, err := s.FetchQuestionCatalog(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	f := &ConfigFile{
		Levels:          cfg.Levels,
		QuestionRewards: cfg.QuestionRewards,
		Rules:           &cfg.Rules,
		Items:           items,
	}
	for _, e := range catalog {
		f.Catalog = append(f.Catalog, CatalogRow{ID: e.Kind.ID(), LevelRequired: e.LevelRequired})
	}
	return f, nil
}

// DefaultItems is the starter store written by Seed.
func DefaultItems() []shop.Item {
	items := []shop.Item{
		{ID: "reciter_ar.husary", Name: "Reciter: Al-Husary", Description: "Mahmoud Khalil Al-Husary", Price: 150, Type: shop.TypeReciter, Value: "ar.husary", SortOrder: 10},
		{ID: "reciter_ar.minshawi", Name: "Reciter: Al-Minshawi", Description: "Mohamed Siddiq Al-Minshawi", Price: 150, Type: shop.TypeReciter, Value: "ar.minshawi", SortOrder: 11},
		{ID: "reciter_ar.abdulbasitmurattal", Name: "Reciter: Abdul Basit", Description: "Abdul Basit Abdus Samad (murattal)", Price: 200, Type: shop.TypeReciter, Value: "ar.abdulbasitmurattal", SortOrder: 12},
	}
	for i, page := range []int{3, 4, 5, 6, 7, 8, 9, 10, 601, 600} {
		items = append(items, shop.Item{
			ID:          fmt.Sprintf("page_%d", page),
			Name:        fmt.Sprintf("Page %d", page),
			Description: fmt.Sprintf("Unlock quizzes on page %d", page),
			Price:       50,
			Type:        shop.TypePage,
			Value:       fmt.Sprint(page),
			SortOrder:   100 + i,
		})
	}
	return items
}

// Seed writes the seed progression configuration, the default question
// catalog and the starter store items. With overwrite false, sections that
// already hold data are kept.
func (s *Store) Seed(ctx context.Context, overwrite bool) error {
	current, err := s.FetchProgressionConfig(ctx)
	if err != nil {
		return err
	}
	items, err := s.ListItems(ctx)
	if err != nil {
		return err
	}
	var catalogRows int
	query, args := sqlite().Select(entsql.Count("*")).From(entsql.Table(tableCatalog)).Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&catalogRows); err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}

	f := &ConfigFile{}
	if overwrite || current == nil {
		seed := progression.SeedConfig()
		f.Levels, f.QuestionRewards, f.Rules = seed.Levels, seed.QuestionRewards, &seed.Rules
	}
	if overwrite || catalogRows == 0 {
		for _, e := range questions.DefaultCatalog() {
			f.Catalog = append(f.Catalog, CatalogRow{ID: e.Kind.ID(), LevelRequired: e.LevelRequired})
		}
	}
	if overwrite || len(items) == 0 {
		f.Items = DefaultItems()
	}
	return s.ImportConfig(ctx, f)
}
