package compiler

import (
	"fmt"

	"github.com/tordrt/erd2prisma/internal/model"
)

// modelBlock accumulates the lines of one generated model
type modelBlock struct {
	tableID        string
	name           string
	fields         []string
	relationFields []string
}

// applyRelation adds the fields one edge generates to both endpoint models.
// Edges with an unresolved endpoint or an unknown cardinality generate
// nothing; an empty cardinality is the default one-to-many.
func applyRelation(r model.Relation, tables map[string]*model.Table, blocks map[string]*modelBlock) {
	src, ok := tables[r.SourceTableID]
	if !ok {
		return
	}
	tgt, ok := tables[r.TargetTableID]
	if !ok {
		return
	}
	cardinality, ok := r.Cardinality.Resolve()
	if !ok {
		return
	}
	srcBlock := blocks[r.SourceTableID]
	tgtBlock := blocks[r.TargetTableID]

	srcStem := fieldStem(*src)
	tgtStem := fieldStem(*tgt)

	switch cardinality {
	case model.OneToMany, model.OneToOne:
		oneToOne := cardinality == model.OneToOne
		key := sourceKey(*src)
		fk := srcStem + "_id"

		fkLine := fmt.Sprintf("  %s %s", fk, MapType(key.Type))
		if oneToOne {
			fkLine += " @unique"
		}
		tgtBlock.fields = append(tgtBlock.fields, fkLine)
		tgtBlock.relationFields = append(tgtBlock.relationFields,
			fmt.Sprintf("  %s %s @relation(fields: [%s], references: [%s])", srcStem, srcBlock.name, fk, key.Name))

		if oneToOne {
			srcBlock.relationFields = append(srcBlock.relationFields, fmt.Sprintf("  %s %s?", tgtStem, tgtBlock.name))
		} else {
			srcBlock.relationFields = append(srcBlock.relationFields, fmt.Sprintf("  %s %s[]", pluralize(tgtStem), tgtBlock.name))
		}

	case model.ManyToMany:
		srcBlock.relationFields = append(srcBlock.relationFields, fmt.Sprintf("  %s %s[]", pluralize(tgtStem), tgtBlock.name))
		tgtBlock.relationFields = append(tgtBlock.relationFields, fmt.Sprintf("  %s %s[]", pluralize(srcStem), srcBlock.name))
	}
}
