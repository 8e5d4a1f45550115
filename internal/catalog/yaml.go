package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Document is the YAML form of the catalog.
type Document struct {
	Types []TypeDoc `yaml:"types"`
}

// TypeDoc is one catalog type in a Document.
type TypeDoc struct {
	Name        string    `yaml:"name"`
	KitchenType string    `yaml:"kitchen_type"`
	Parts       []PartDoc `yaml:"parts,omitempty"`
}

// PartDoc is one part of a TypeDoc.
type PartDoc struct {
	Name        string `yaml:"name"`
	HeightMM    int    `yaml:"height_mm"`
	WidthMM     int    `yaml:"width_mm"`
	Pieces      int    `yaml:"pieces"`
	Material    string `yaml:"material,omitempty"`
	ThicknessMM int    `yaml:"thickness_mm,omitempty"`
	Wrapping    string `yaml:"wrapping,omitempty"`
	Comments    string `yaml:"comments,omitempty"`
}

// Export writes every catalog type with its parts to w as YAML.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	all, err := s.repo.ListCabinetTypes(ctx, "")
	if err != nil {
		return err
	}
	doc := Document{Types: make([]TypeDoc, 0, len(all))}
	for _, ct := range all {
		parts, err := s.repo.ListParts(ctx, ct.ID)
		if err != nil {
			return err
		}
		td := TypeDoc{Name: ct.Name, KitchenType: ct.KitchenType}
		for _, p := range parts {
			td.Parts = append(td.Parts, PartDoc{
				Name:        p.PartName,
				HeightMM:    p.HeightMM,
				WidthMM:     p.WidthMM,
				Pieces:      p.Pieces,
				Material:    p.Material,
				ThicknessMM: p.ThicknessMM,
				Wrapping:    p.Wrapping,
				Comments:    p.Comments,
			})
		}
		doc.Types = append(doc.Types, td)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML catalog from r. Types whose name already exists are
// left unchanged and counted as skipped; new types are created with their
// parts. Each type is stored atomically, so a bad part aborts the import
// without leaving that type half built.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return res, fmt.Errorf("decoding catalog: %w", err)
	}

	for _, td := range doc.Types {
		_, err := s.repo.GetCabinetTypeByName(ctx, td.Name)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, types.ErrNotFound) {
			return res, err
		}

		parts := make([]*types.CabinetPart, len(td.Parts))
		for i, pd := range td.Parts {
			parts[i] = &types.CabinetPart{
				PartName:    pd.Name,
				HeightMM:    pd.HeightMM,
				WidthMM:     pd.WidthMM,
				Pieces:      pd.Pieces,
				Material:    pd.Material,
				ThicknessMM: pd.ThicknessMM,
				Wrapping:    pd.Wrapping,
				Comments:    pd.Comments,
			}
		}
		if _, err := s.createWithParts(ctx, td.Name, td.KitchenType, parts); err != nil {
			return res, fmt.Errorf("importing %q: %w", td.Name, err)
		}
		res.TypesCreated++
		res.PartsAdded += len(parts)
	}
	s.log.Info(ctx, "catalog imported", "types", res.TypesCreated, "parts", res.PartsAdded, "skipped", res.Skipped)
	return res, nil
}
