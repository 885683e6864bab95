// file: internal/session/tasks.go
package session

import (
	"encoding/json"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// dispatchTaskMethod handles the tasks/* method family, available only when
// a task manager was installed on this session.
func (s *Session) dispatchTaskMethod(method string, params json.RawMessage) (interface{}, error) {
	if s.tasks == nil {
		return nil, rpcerr.ErrorWithDetails(rpcerr.New("method not found"), rpcerr.CategoryRPC, rpcerr.CodeMethodNotFound,
			map[string]interface{}{"method": method})
	}

	switch method {
	case "tasks/submit":
		var p mcptypes.SubmitTaskParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid submit params"), rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
		}
		id, err := s.tasks.Submit(p.Type, p.Params)
		if err != nil {
			return nil, err
		}
		return mcptypes.SubmitTaskResult{ID: id}, nil

	case "tasks/list":
		var p mcptypes.ListTasksParams
		if len(params) > 0 {
			if err := json.Unmarshal(params, &p); err != nil {
				return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid list params"), rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
			}
		}
		return mcptypes.ListTasksResult{Tasks: s.tasks.List(p.Status)}, nil

	case "tasks/show":
		var p mcptypes.ShowTaskParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid show params"), rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
		}
		return s.tasks.GetInfo(p.ID)

	case "tasks/cancel":
		var p mcptypes.CancelTaskParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpcerr.ErrorWithDetails(rpcerr.Wrap(err, "invalid cancel params"), rpcerr.CategoryRPC, rpcerr.CodeInvalidParams, nil)
		}
		return s.tasks.Cancel(p.ID, p.Reason)

	case "tasks/stats":
		return s.tasks.Stats(), nil

	default:
		return nil, rpcerr.ErrorWithDetails(rpcerr.New("method not found"), rpcerr.CategoryRPC, rpcerr.CodeMethodNotFound,
			map[string]interface{}{"method": method})
	}
}
