package prefect

// Filter shapes follow the engine's REST convention: each filterable
// field is an object with an operator key ("all_", "any_", ...).

type tagsFilter struct {
	All []string `json:"all_,omitempty"`
}

type stateTypeFilter struct {
	Any []StateType `json:"any_,omitempty"`
}

type stateFilter struct {
	Type *stateTypeFilter `json:"type,omitempty"`
}

type idFilter struct {
	Any []string `json:"any_,omitempty"`
}

type nameFilter struct {
	Any []string `json:"any_,omitempty"`
}

type flowRunFilter struct {
	Id    *idFilter    `json:"id,omitempty"`
	Tags  *tagsFilter  `json:"tags,omitempty"`
	State *stateFilter `json:"state,omitempty"`
}

// FlowRunFilter selects flow runs by id, tags, and state type.
// Zero value selects everything.
type FlowRunFilter struct {
	Ids        []string
	TagsAll    []string
	StateTypes []StateType
}

func (f FlowRunFilter) body() *flowRunFilter {
	out := &flowRunFilter{}
	if len(f.Ids) > 0 {
		out.Id = &idFilter{Any: f.Ids}
	}
	if len(f.TagsAll) > 0 {
		out.Tags = &tagsFilter{All: f.TagsAll}
	}
	if len(f.StateTypes) > 0 {
		out.State = &stateFilter{Type: &stateTypeFilter{Any: f.StateTypes}}
	}
	return out
}

type flowRunFilterRequest struct {
	FlowRuns *flowRunFilter `json:"flow_runs,omitempty"`
	Sort     string         `json:"sort,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

type deploymentFilter struct {
	Name *nameFilter `json:"name,omitempty"`
}

type deploymentFilterRequest struct {
	Deployments *deploymentFilter `json:"deployments,omitempty"`
}

type artifactFilter struct {
	FlowRunId *idFilter `json:"flow_run_id,omitempty"`
}

type artifactFilterRequest struct {
	Artifacts *artifactFilter `json:"artifacts,omitempty"`
}

type blockSchemaFilter struct {
	BlockTypeId *idFilter `json:"block_type_id,omitempty"`
}

type blockSchemaFilterRequest struct {
	BlockSchemas *blockSchemaFilter `json:"block_schemas,omitempty"`
}

type blockDocumentFilterRequest struct {
	BlockDocuments *struct {
		Name *nameFilter `json:"name,omitempty"`
	} `json:"block_documents,omitempty"`
}
