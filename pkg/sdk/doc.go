// Package taskdesk provides an embedded Go client for the taskdesk
// workflow service backed by Redis.
//
// The client wires the domain services directly over the database, so it
// shares semantics with the HTTP API without going through it:
//
//	client, _ := taskdesk.New(ctx, taskdesk.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	form, _ := client.Forms().Create(ctx, "Onboarding", []taskdesk.Field{
//	    {ID: "name", Label: "Full name", Type: "singleLine",
//	        Rules: &taskdesk.Rules{Required: true}},
//	})
//
//	task, _ := client.Tasks().Create(ctx, taskdesk.TaskParams{
//	    TaskType:      "onboarding",
//	    Status:        "open",
//	    Priority:      "normal",
//	    AttachedForms: []string{form.ID},
//	})
//	_, _ = client.Tasks().Submit(ctx, task.ID, form.ID,
//	    map[string]any{"name": "Alice"})
package taskdesk
