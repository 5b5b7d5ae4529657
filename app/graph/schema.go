// Package graph defines the read-only GraphQL view of the catalog.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/sweetshop/app/repositories"
	gql "github.com/shashiranjanraj/sweetshop/pkg/graphql"
)

var sweetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Sweet",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"name":     &graphql.Field{Type: graphql.String},
		"category": &graphql.Field{Type: graphql.String},
		"price":    &graphql.Field{Type: graphql.Float},
		"quantity": &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the catalog query schema. Mutations go through the REST
// API only, so the schema has no mutation root.
func NewSchema() (graphql.Schema, error) {
	sweets := repositories.NewSweetRepository()

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"sweets": &graphql.Field{
				Type:        graphql.NewList(sweetType),
				Description: "List sweets, optionally filtered by name substring and category.",
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := repositories.SearchFilter{}
					if name, ok := p.Args["name"].(string); ok {
						filter.Name = name
					}
					if category, ok := p.Args["category"].(string); ok {
						filter.Category = category
					}
					return sweets.Search(filter)
				},
			},
			"sweet": &graphql.Field{
				Type:        sweetType,
				Description: "Fetch a single sweet by ID.",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					sweet, err := sweets.FindByID(uint(id))
					if err != nil {
						return nil, nil // absent sweets resolve to null
					}
					return sweet, nil
				},
			},
		},
	})

	return gql.NewSchema(rootQuery)
}
