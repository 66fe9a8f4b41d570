package response

// OK is the success envelope for mutating endpoints: {"ok":true,"id":...}.
type OK struct {
	Ok bool        `json:"ok"`
	ID interface{} `json:"id,omitempty"`
}

// Error carries a short machine-readable code, never internal detail.
type Error struct {
	Error string `json:"error"`
}

func Success() OK {
	return OK{Ok: true}
}

func Created(id interface{}) OK {
	return OK{Ok: true, ID: id}
}

func Err(code string) Error {
	return Error{Error: code}
}
