package validate

import (
	"github.com/agentstation/intentmap/pkg/catalog"
)

// DetectCollisions reports entities from different repos sharing an id.
// The first occurrence of an id in snapshot sort order is canonical; every
// later occurrence is recorded against it. The detector performs no
// deduplication or resolution — its output is advisory.
func DetectCollisions(c *catalog.Catalog) []catalog.Collision {
	var collisions []catalog.Collision

	collisions = append(collisions, collideEntities(catalog.EntityTypePlugin, pluginsAsEntities(c))...)
	collisions = append(collisions, collideEntities(catalog.EntityTypeSkill, skillsAsEntities(c))...)
	collisions = append(collisions, collideEntities(catalog.EntityTypeDocument, documentsAsEntities(c))...)

	return collisions
}

// collideEntities runs the single-pass collision scan over one category.
func collideEntities(entityType catalog.EntityType, entities []catalog.Entity) []catalog.Collision {
	var collisions []catalog.Collision
	firstRepo := make(map[string]string)

	for _, e := range entities {
		id := e.Identity()
		canonical, seen := firstRepo[id]
		if !seen {
			firstRepo[id] = e.Repo()
			continue
		}
		// Same-repo duplicates are handled by extraction de-duplication;
		// only cross-repo occurrences are collisions.
		if canonical != e.Repo() {
			collisions = append(collisions, catalog.Collision{
				Type:  entityType,
				ID:    id,
				Repos: []string{canonical, e.Repo()},
			})
		}
	}

	return collisions
}

func pluginsAsEntities(c *catalog.Catalog) []catalog.Entity {
	out := make([]catalog.Entity, len(c.Plugins))
	for i, p := range c.Plugins {
		out[i] = p
	}
	return out
}

func skillsAsEntities(c *catalog.Catalog) []catalog.Entity {
	out := make([]catalog.Entity, len(c.Skills))
	for i, s := range c.Skills {
		out[i] = s
	}
	return out
}

func documentsAsEntities(c *catalog.Catalog) []catalog.Entity {
	out := make([]catalog.Entity, len(c.Documents))
	for i, d := range c.Documents {
		out[i] = d
	}
	return out
}
