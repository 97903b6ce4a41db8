package constants

// BackupTimestampFormat is used in backup file names
const BackupTimestampFormat = "20060102-1504"
