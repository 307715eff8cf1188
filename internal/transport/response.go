package transport

// ApiResponse is the envelope every protected endpoint answers with.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(message string, data any) ApiResponse {
	return ApiResponse{Success: true, Message: message, Data: data}
}

func Fail(message string, data any) ApiResponse {
	return ApiResponse{Success: false, Message: message, Data: data}
}

// Response codes carried in ApiResponse.Message.
const (
	WorkItemsRetrievalSuccessful          = "WORK_ITEMS_RETRIEVAL_SUCCESSFUL"
	WorkOrderDetailRetrievalSuccessful    = "WORK_ORDER_DETAIL_RETRIEVAL_SUCCESSFUL"
	TasksRetrievalSuccessful              = "TASKS_RETRIEVAL_SUCCESSFUL"
	HoursLoggedSuccessful                 = "HOURS_LOGGED_SUCCESSFUL"
	AssetRatingSavedSuccessful            = "ASSET_RATING_SAVED_SUCCESSFUL"
	CommentAddedSuccessful                = "COMMENT_ADDED_SUCCESSFUL"
	ChecklistItemsRetrievalSuccessful     = "CHECKLIST_ITEMS_RETRIEVAL_SUCCESSFUL"
	ChecklistItemResponsesSavedSuccessful = "CHECKLIST_ITEM_RESPONSES_SAVED_SUCCESSFUL"
	PartsRetrievalSuccessful              = "PARTS_RETRIEVAL_SUCCESSFUL"
	PartsUpdatedSuccessful                = "PARTS_UPDATED_SUCCESSFUL"
	PartReturnedSuccessful                = "PART_RETURNED_SUCCESSFUL"
	PartCollectedSuccessful               = "PART_COLLECTED_SUCCESSFUL"
	UserRetrievedSuccessfully             = "User retrieved successfully"
	SupervisorRetrievedSuccessfully       = "Supervisor details retrieved successfully"

	ErrBadRequest                         = "ERR_BAD_REQUEST"
	ErrTenantIDNotFound                   = "ERR_TENANT_ID_NOT_FOUND"
	ErrFailedToRetrieveWorkItems          = "ERR_FAILED_TO_RETRIEVE_WORK_ITEMS"
	ErrFailedToRetrieveWorkOrderDetail    = "ERR_FAILED_TO_RETRIEVE_WORK_ORDER_DETAIL"
	ErrInvalidItemType                    = "ERR_INVALID_ITEM_TYPE"
	ErrWorkItemNotFound                   = "ERR_WORK_ITEM_NOT_FOUND"
	ErrFailedToRetrieveTasks              = "ERR_FAILED_TO_RETRIEVE_TASKS"
	ErrFailedToLogHours                   = "ERR_FAILED_TO_LOG_HOURS"
	ErrFailedToSaveAssetRating            = "ERR_FAILED_TO_SAVE_ASSET_RATING"
	ErrFailedToAddComment                 = "ERR_FAILED_TO_ADD_COMMENT"
	ErrTaskNotFound                       = "ERR_TASK_NOT_FOUND"
	ErrFailedToRetrieveChecklistItems     = "ERR_FAILED_TO_RETRIEVE_CHECKLIST_ITEMS"
	ErrFailedToSaveChecklistItemResponses = "ERR_FAILED_TO_SAVE_CHECKLIST_ITEM_RESPONSES"
	ErrFailedToRetrieveParts              = "ERR_FAILED_TO_RETRIEVE_PARTS"
	ErrFailedToUpdateParts                = "ERR_FAILED_TO_UPDATE_PARTS"
	ErrFailedToReturnPart                 = "ERR_FAILED_TO_RETURN_PART"
	ErrFailedToCollectPart                = "ERR_FAILED_TO_COLLECT_PART"
)
