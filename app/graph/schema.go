// Package graph exposes a read-only GraphQL query surface over orders and
// the catalogue, for dashboard widgets that want to shape their own
// payloads. Mounted for admins and managers only; the REST endpoints stay
// the write path.
package graph

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/response"
)

type actorCtxKey struct{}

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"product_id": &graphql.Field{Type: graphql.Int},
		"name":       &graphql.Field{Type: graphql.String},
		"quantity":   &graphql.Field{Type: graphql.Int},
		"price":      &graphql.Field{Type: graphql.Float},
		"total":      &graphql.Field{Type: graphql.Float},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.Int},
		"order_number":   &graphql.Field{Type: graphql.String},
		"status":         &graphql.Field{Type: graphql.String},
		"payment_status": &graphql.Field{Type: graphql.String},
		"total_amount":   &graphql.Field{Type: graphql.Float},
		"customer_name":  &graphql.Field{Type: graphql.String},
		"customer_email": &graphql.Field{Type: graphql.String},
		"items":          &graphql.Field{Type: graphql.NewList(orderItemType)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.Int},
		"name":  &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{Type: graphql.Float},
		"stock": &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the root query. Resolvers read the actor from the
// request context, so list scoping stays consistent with the REST surface.
func NewSchema() (graphql.Schema, error) {
	orderSvc := services.NewOrderService()
	catalog := repositories.NewCatalogRepository()

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					actor, _ := p.Context.Value(actorCtxKey{}).(policy.Actor)

					filter := repositories.OrderFilter{}
					if s, ok := p.Args["status"].(string); ok {
						filter.Status = s
					}
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					orders, _, err := orderSvc.List(actor, filter, page, limit)
					return orders, err
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					products, _, err := catalog.ListProducts(nil, search, 1, 100)
					return products, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler serves POST /graphql against schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromCtx(r)
		if !ok {
			response.Unauthorized(w)
			return
		}

		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        contextWithActor(r, actor),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}

func contextWithActor(r *http.Request, actor policy.Actor) context.Context {
	return context.WithValue(r.Context(), actorCtxKey{}, actor)
}
