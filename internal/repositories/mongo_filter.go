package repositories

import (
	"marketplace-properties/internal/query"

	"go.mongodb.org/mongo-driver/bson"
)

var mongoOps = map[query.Op]string{
	query.OpEq:  "$eq",
	query.OpNeq: "$ne",
	query.OpGte: "$gte",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
}

// toBSON renders predicates as a Mongo filter. Predicates on the same field are
// merged into one operator document, so a min/max pair becomes {$gte, $lte}.
func toBSON(preds []query.Predicate) bson.M {
	filter := bson.M{}
	for _, p := range preds {
		field := p.Field
		if field == query.FieldID {
			field = "_id"
		}
		ops, ok := filter[field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[field] = ops
		}
		if p.Op == query.OpNotNull {
			ops["$nin"] = bson.A{nil, ""}
			continue
		}
		ops[mongoOps[p.Op]] = p.Value
	}
	return filter
}
