package store

const (
	SaveJobNodeQuery = `
		MERGE (j:Job {uuid: $uuid})
		SET j.group_id = $group_id,
			j.created_at = $created_at,
			j.total_entities = $total_entities,
			j.total_relationships = $total_relationships,
			j.passes_attempted = $passes_attempted,
			j.passes_succeeded = $passes_succeeded,
			j.dropped_relationships = $dropped_relationships,
			j.completeness_score = $completeness_score,
			j.is_complete = $is_complete
		RETURN j.uuid AS uuid
	`

	SaveEntityNodeQuery = `
		MERGE (n:Entity {normalized_name: $normalized_name, group_id: $group_id})
		ON CREATE SET n.uuid = $uuid
		SET n.name = $name,
			n.type = $type,
			n.confidence = $confidence,
			n.first_mention_offset = $first_mention_offset,
			n.evidence = $evidence,
			n.created_at = $created_at
		RETURN n.uuid AS uuid
	`

	SaveExtractedEdgeQuery = `
		MATCH (j:Job {uuid: $job_uuid})
		MATCH (n:Entity {uuid: $entity_uuid})
		MERGE (j)-[e:EXTRACTED {uuid: $uuid}]->(n)
		SET e.created_at = $created_at
		RETURN e.uuid AS uuid
	`

	SaveRelationshipEdgeQuery = `
		MATCH (source:Entity {uuid: $source_uuid})
		MATCH (target:Entity {uuid: $target_uuid})
		MERGE (source)-[e:RELATES_TO {uuid: $uuid}]->(target)
		SET e.type = $type,
			e.fact = $fact,
			e.confidence = $confidence,
			e.group_id = $group_id,
			e.job_uuid = $job_uuid,
			e.created_at = $created_at
		RETURN e.uuid AS uuid
	`

	GetGroupEntitiesQuery = `
		MATCH (n:Entity {group_id: $group_id})
		RETURN n.uuid AS uuid, n.name AS name, n.type AS type, n.confidence AS confidence
	`
)
