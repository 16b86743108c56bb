package plan

import (
	"sync"

	"github.com/structql/structql/model"
)

var (
	fixturesOnce sync.Once
	userMeta     *model.Meta
	postMeta     *model.Meta
	commentMeta  *model.Meta
)

func fixtures() (user, post, comment *model.Meta) {
	fixturesOnce.Do(func() {
		userID := &model.Field{
			Model: "user", Name: "id", Index: 0,
			Columns:              []string{"id"},
			EffectiveAnnotations: [][]model.Annotation{{model.AnnPrimaryKey, model.AnnNotNull}},
		}
		userMeta = model.MustRegister(&model.Meta{
			Table: "user",
			Fields: []*model.Field{
				userID,
				{
					Model: "user", Name: "name", Index: 1,
					Columns:              []string{"name"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnMaxLength}},
				},
				{
					Model: "user", Name: "age", Index: 2,
					Columns:              []string{"age"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnNotNull}},
				},
				{
					Model: "user", Name: "posts", Index: 3,
					Columns:              []string{},
					EffectiveAnnotations: [][]model.Annotation{},
					Relation:             &model.Relation{Kind: model.BackRef, TargetModel: "post", TargetField: "author"},
				},
			},
			PrimaryKey: userID,
		})

		postID := &model.Field{
			Model: "post", Name: "id", Index: 0,
			Columns:              []string{"id"},
			EffectiveAnnotations: [][]model.Annotation{{model.AnnPrimaryKey, model.AnnNotNull}},
		}
		postMeta = model.MustRegister(&model.Meta{
			Table: "post",
			Fields: []*model.Field{
				postID,
				{
					Model: "post", Name: "title", Index: 1,
					Columns:              []string{"title"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnMaxLength}},
				},
				{
					Model: "post", Name: "author", Index: 2,
					Columns:              []string{"author"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnForeignKey, model.AnnNotNull}},
					Relation:             &model.Relation{Kind: model.ForeignModel, TargetModel: "user", TargetField: "id"},
				},
			},
			PrimaryKey: postID,
		})

		commentID := &model.Field{
			Model: "comment", Name: "id", Index: 0,
			Columns:              []string{"id"},
			EffectiveAnnotations: [][]model.Annotation{{model.AnnPrimaryKey, model.AnnNotNull}},
		}
		commentMeta = model.MustRegister(&model.Meta{
			Table: "comment",
			Fields: []*model.Field{
				commentID,
				{
					Model: "comment", Name: "post", Index: 1,
					Columns:              []string{"post"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnForeignKey, model.AnnNotNull}},
					Relation:             &model.Relation{Kind: model.ForeignModel, TargetModel: "post", TargetField: "id"},
				},
			},
			PrimaryKey: commentID,
		})
	})
	return userMeta, postMeta, commentMeta
}

func field(m *model.Meta, name string) *model.Field {
	f, ok := m.Field(name)
	if !ok {
		panic("fixture field " + name)
	}
	return f
}
