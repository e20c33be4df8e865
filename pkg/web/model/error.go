// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// ErrorCode classifies failures returned to the front-end.
type ErrorCode string

const (
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND"
	ErrorCodeForbiddenPath  ErrorCode = "FORBIDDEN_PATH"
	ErrorCodeIOError        ErrorCode = "IO_ERROR"
	ErrorCodeTimeout        ErrorCode = "TIMEOUT"
	ErrorCodeRuntimeError   ErrorCode = "RUNTIME_ERROR"
	ErrorCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrorCodeMissingQuery   ErrorCode = "MISSING_QUERY"
	ErrorCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeForbiddenHost  ErrorCode = "FORBIDDEN_HOST"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
