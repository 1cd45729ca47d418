package httpclient

// state は1リクエストの処理状態。
type state int

const (
	stateSending state = iota
	stateUnauthorized
	stateRefreshing
	stateRetrying
	stateSuccess
	stateFailure
	stateSessionExpired
)

// terminal は終端状態かどうかを返す。
func (s state) terminal() bool {
	return s == stateSuccess || s == stateFailure || s == stateSessionExpired
}

// String は状態名を返す。
func (s state) String() string {
	switch s {
	case stateSending:
		return "Sending"
	case stateUnauthorized:
		return "Unauthorized"
	case stateRefreshing:
		return "Refreshing"
	case stateRetrying:
		return "Retrying"
	case stateSuccess:
		return "Success"
	case stateFailure:
		return "Failure"
	case stateSessionExpired:
		return "SessionExpired"
	default:
		return "Unknown"
	}
}

// outcome は各状態で実行した処理の結果。
type outcome int

const (
	// outcomeOK は2xxレスポンスを受け取ったことを表す。
	outcomeOK outcome = iota
	// outcomeUnauthorized はトークン付きのリクエストに401が返ったことを表す。
	outcomeUnauthorized
	// outcomeError は通信エラー、401以外の非2xx、キャンセルなどを表す。
	outcomeError
	// outcomeProceed は無条件に次の状態へ進むことを表す。
	outcomeProceed
	// outcomeRefreshed はアクセストークンの再発行に成功したことを表す。
	outcomeRefreshed
	// outcomeRefreshFailed はアクセストークンの再発行に失敗したことを表す。
	outcomeRefreshFailed
)

// transitions は状態遷移表。ここに無い組み合わせはすべて Failure になる。
var transitions = map[state]map[outcome]state{
	stateSending: {
		outcomeOK:           stateSuccess,
		outcomeUnauthorized: stateUnauthorized,
		outcomeError:        stateFailure,
	},
	stateUnauthorized: {
		outcomeProceed: stateRefreshing,
	},
	stateRefreshing: {
		outcomeRefreshed:     stateRetrying,
		outcomeRefreshFailed: stateSessionExpired,
		outcomeError:         stateFailure,
	},
	stateRetrying: {
		outcomeOK:           stateSuccess,
		outcomeUnauthorized: stateFailure,
		outcomeError:        stateFailure,
	},
}

// transition は現在の状態と処理結果から次の状態を返す。
func transition(from state, o outcome) state {
	if next, ok := transitions[from][o]; ok {
		return next
	}
	return stateFailure
}
