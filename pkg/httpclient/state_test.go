package httpclient

import "testing"

// TestTransition は状態遷移表を検証する。
func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from state
		o    outcome
		want state
	}{
		{name: "送信成功", from: stateSending, o: outcomeOK, want: stateSuccess},
		{name: "トークン付きで401", from: stateSending, o: outcomeUnauthorized, want: stateUnauthorized},
		{name: "送信失敗", from: stateSending, o: outcomeError, want: stateFailure},
		{name: "401から再発行へ", from: stateUnauthorized, o: outcomeProceed, want: stateRefreshing},
		{name: "再発行成功", from: stateRefreshing, o: outcomeRefreshed, want: stateRetrying},
		{name: "再発行失敗", from: stateRefreshing, o: outcomeRefreshFailed, want: stateSessionExpired},
		{name: "再発行中のキャンセル", from: stateRefreshing, o: outcomeError, want: stateFailure},
		{name: "再送成功", from: stateRetrying, o: outcomeOK, want: stateSuccess},
		{name: "再送も401", from: stateRetrying, o: outcomeUnauthorized, want: stateFailure},
		{name: "再送失敗", from: stateRetrying, o: outcomeError, want: stateFailure},
		{name: "未定義の組み合わせ", from: stateSending, o: outcomeRefreshed, want: stateFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := transition(tt.from, tt.o); got != tt.want {
				t.Errorf("transition(%s, %d) = %s, want %s", tt.from, tt.o, got, tt.want)
			}
		})
	}
}

// TestRetryDepthIsBounded は再送の後に再発行へ戻る経路が無いことを検証する。
func TestRetryDepthIsBounded(t *testing.T) {
	t.Parallel()

	outcomes := []outcome{outcomeOK, outcomeUnauthorized, outcomeError, outcomeProceed, outcomeRefreshed, outcomeRefreshFailed}
	for _, o := range outcomes {
		if next := transition(stateRetrying, o); !next.terminal() {
			t.Errorf("transition(Retrying, %d) = %s, 終端状態であるべき", o, next)
		}
	}

	// どの結果の並びでも Refreshing を通るのは高々1回
	var walk func(st state, refreshes, depth int)
	walk = func(st state, refreshes, depth int) {
		if st == stateRefreshing {
			refreshes++
		}
		if refreshes > 1 {
			t.Fatalf("Refreshingを%d回通過した", refreshes)
		}
		if st.terminal() || depth > 10 {
			return
		}
		for _, o := range outcomes {
			walk(transition(st, o), refreshes, depth+1)
		}
	}
	walk(stateSending, 0, 0)
}

// TestStateString は状態名を検証する。
func TestStateString(t *testing.T) {
	t.Parallel()

	if got := stateSessionExpired.String(); got != "SessionExpired" {
		t.Errorf("String() = %q, want %q", got, "SessionExpired")
	}
	if got := state(99).String(); got != "Unknown" {
		t.Errorf("String() = %q, want %q", got, "Unknown")
	}
}
