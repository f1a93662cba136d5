package domain

import "testing"

func TestWorkflowMatches_NoConditionsMatchesEverything(t *testing.T) {
	workflow := &Workflow{ID: "wf-1", Enabled: true}

	if !workflow.Matches(CallEvent{Status: CallStatusCompleted}) {
		t.Error("expected workflow with no conditions to match")
	}
	if !workflow.Matches(CallEvent{Status: CallStatusFailed, AgentCategory: "sales"}) {
		t.Error("expected workflow with no conditions to match any event")
	}
}

func TestWorkflowMatches_StatusCondition(t *testing.T) {
	workflow := &Workflow{
		ID:      "wf-1",
		Trigger: WorkflowTrigger{CallStatuses: []string{CallStatusCompleted}},
	}

	if !workflow.Matches(CallEvent{Status: CallStatusCompleted}) {
		t.Error("expected completed call to match")
	}
	if workflow.Matches(CallEvent{Status: CallStatusFailed}) {
		t.Error("expected failed call not to match")
	}
}

func TestWorkflowMatches_CategoryAndQualification(t *testing.T) {
	qualification := "qualified"
	workflow := &Workflow{
		ID: "wf-1",
		Trigger: WorkflowTrigger{
			AgentCategories: []string{"sales", "support"},
			Qualification:   &qualification,
		},
	}

	match := CallEvent{AgentCategory: "sales", Qualification: "qualified"}
	if !workflow.Matches(match) {
		t.Error("expected matching category and qualification to match")
	}

	wrongQualification := CallEvent{AgentCategory: "sales", Qualification: "unqualified"}
	if workflow.Matches(wrongQualification) {
		t.Error("expected qualification mismatch to reject")
	}

	wrongCategory := CallEvent{AgentCategory: "billing", Qualification: "qualified"}
	if workflow.Matches(wrongCategory) {
		t.Error("expected category mismatch to reject")
	}
}

func TestBufferInbound_DropsOldestBeyondCap(t *testing.T) {
	session := NewCallSession("call-1")

	session.BufferInbound([]byte{1, 2, 3, 4}, 6)
	session.BufferInbound([]byte{5, 6, 7, 8}, 6)

	if len(session.InboundAudio) != 6 {
		t.Fatalf("expected buffer capped at 6 bytes, got %d", len(session.InboundAudio))
	}
	if session.InboundAudio[0] != 3 || session.InboundAudio[5] != 8 {
		t.Errorf("expected oldest bytes dropped, got %v", session.InboundAudio)
	}
}

func TestSnapshot_CopiesWorkflowContext(t *testing.T) {
	session := NewCallSession("call-1")
	session.WorkflowContext["key"] = "before"

	snapshot := session.Snapshot()
	session.WorkflowContext["key"] = "after"

	if snapshot.WorkflowContext["key"] != "before" {
		t.Error("expected snapshot to hold a copy of the workflow context")
	}
}

func TestSnapshot_CopiesNestedMaps(t *testing.T) {
	session := NewCallSession("call-1")
	session.WorkflowContext["variables"] = map[string]interface{}{"account_id": "acc-7"}

	snapshot := session.Snapshot()
	live := session.WorkflowContext["variables"].(map[string]interface{})
	live["plan"] = "premium"

	copied, ok := snapshot.WorkflowContext["variables"].(map[string]interface{})
	if !ok {
		t.Fatal("variables missing from snapshot")
	}
	if _, leaked := copied["plan"]; leaked {
		t.Error("write to the live session leaked into an earlier snapshot")
	}
	if copied["account_id"] != "acc-7" {
		t.Errorf("unexpected snapshot variables %v", copied)
	}
}
